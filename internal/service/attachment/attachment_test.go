package attachment

import (
	"strings"
	"testing"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/registry"
)

func chatModel(provider registry.Provider, modalities ...registry.Modality) *registry.ChatModel {
	return &registry.ChatModel{
		Name:       "test",
		Provider:   provider,
		Model:      "test-model",
		Modalities: modalities,
	}
}

func imageInput(name string) Input {
	return Input{
		Doc:  &model.Document{ID: "doc-" + name, Name: name, Type: model.DocTypeImage},
		Data: []byte{0x89, 0x50, 0x4e, 0x47},
		MIME: "image/png",
	}
}

func pdfInput(name, text string) Input {
	return Input{
		Doc:  &model.Document{ID: "doc-" + name, Name: name, Type: model.DocTypePDF},
		Data: []byte("%PDF-1.4"),
		MIME: "application/pdf",
		Text: text,
	}
}

func textInput(name, text string) Input {
	return Input{
		Doc:  &model.Document{ID: "doc-" + name, Name: name, Type: model.DocTypeTxt},
		Text: text,
	}
}

func TestBuildBlocksEmptyInput(t *testing.T) {
	if blocks := BuildBlocks(nil, chatModel(registry.ProviderOpenAI, registry.ModalityImage)); len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %d", len(blocks))
	}
}

func TestBuildBlocksOpenAIImage(t *testing.T) {
	blocks := BuildBlocks([]Input{imageInput("a.png")}, chatModel(registry.ProviderOpenAI, registry.ModalityImage))

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0]["type"] != "image_url" {
		t.Errorf("expected image_url block, got %v", blocks[0]["type"])
	}
	imageURL := blocks[0]["image_url"].(map[string]interface{})
	if !strings.HasPrefix(imageURL["url"].(string), "data:image/png;base64,") {
		t.Errorf("expected data url, got %v", imageURL["url"])
	}
}

func TestBuildBlocksAnthropicPDF(t *testing.T) {
	blocks := BuildBlocks([]Input{pdfInput("r.pdf", "report body")},
		chatModel(registry.ProviderAnthropic, registry.ModalityImage, registry.ModalityPDF))

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0]["type"] != "document" {
		t.Errorf("expected document block, got %v", blocks[0]["type"])
	}
	source := blocks[0]["source"].(map[string]interface{})
	if source["media_type"] != "application/pdf" {
		t.Errorf("expected pdf media type, got %v", source["media_type"])
	}
}

func TestBuildBlocksGeminiMedia(t *testing.T) {
	blocks := BuildBlocks([]Input{imageInput("a.png")},
		chatModel(registry.ProviderGemini, registry.ModalityImage, registry.ModalityPDF, registry.ModalityAudio, registry.ModalityVideo))

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0]["type"] != "media" {
		t.Errorf("expected media block, got %v", blocks[0]["type"])
	}
	if blocks[0]["mime_type"] != "image/png" {
		t.Errorf("expected mime type preserved, got %v", blocks[0]["mime_type"])
	}
}

func TestBuildBlocksTextOnlyModelFallsBack(t *testing.T) {
	blocks := BuildBlocks([]Input{pdfInput("r.pdf", "report body"), textInput("n.txt", "notes")},
		chatModel(registry.ProviderOllama))

	if len(blocks) != 2 {
		t.Fatalf("expected 2 text blocks, got %d", len(blocks))
	}
	for i, name := range []string{"r.pdf", "n.txt"} {
		if blocks[i]["type"] != "text" {
			t.Errorf("block %d: expected text block, got %v", i, blocks[i]["type"])
		}
		text := blocks[i]["text"].(string)
		if !strings.HasPrefix(text, "File name: "+name) {
			t.Errorf("block %d: unexpected text prefix %q", i, text)
		}
	}
}

func TestBuildBlocksRichBeforeTextInUploadOrder(t *testing.T) {
	inputs := []Input{
		textInput("1.txt", "first"),
		imageInput("2.png"),
		textInput("3.txt", "third"),
		imageInput("4.png"),
	}
	blocks := BuildBlocks(inputs, chatModel(registry.ProviderOpenAI, registry.ModalityImage))

	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}
	// 富媒体在前，文本在后，各自保持上传顺序
	if blocks[0]["type"] != "image_url" || blocks[1]["type"] != "image_url" {
		t.Error("expected rich blocks first")
	}
	if !strings.Contains(blocks[2]["text"].(string), "1.txt") {
		t.Error("expected first text block to be 1.txt")
	}
	if !strings.Contains(blocks[3]["text"].(string), "3.txt") {
		t.Error("expected second text block to be 3.txt")
	}
}

func TestBuildBlocksSkipsImageWithoutTextFallback(t *testing.T) {
	// 不支持图像的模型收到无文本的图像附件时跳过
	blocks := BuildBlocks([]Input{imageInput("a.png")}, chatModel(registry.ProviderOllama))
	if len(blocks) != 0 {
		t.Fatalf("expected image to be skipped, got %d blocks", len(blocks))
	}
}

func TestBuildPartsMirrorsBlockOrder(t *testing.T) {
	inputs := []Input{
		textInput("n.txt", "notes"),
		imageInput("a.png"),
	}
	parts := BuildParts(inputs, chatModel(registry.ProviderOpenAI, registry.ModalityImage))

	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].ImageURL == nil {
		t.Error("expected image part first")
	}
	if !strings.HasPrefix(parts[1].Text, "File name: n.txt") {
		t.Errorf("unexpected text part %q", parts[1].Text)
	}
}
