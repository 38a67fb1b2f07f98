// Package attachment 将上传的文档转换为各提供商期望的消息内容块
package attachment

import (
	"encoding/base64"
	"fmt"
	"log"

	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/registry"
)

// Input 待注入对话的单个文档及其已加载内容
type Input struct {
	Doc  *model.Document
	Data []byte // 原始字节，富媒体按此编码
	MIME string
	Text string // 提取出的文本，文本类文档与回退路径使用
}

// textBlockContent 文本附件在消息中的固定格式
func textBlockContent(name, text string) string {
	return fmt.Sprintf("File name: %s\nFile content: %s", name, text)
}

// modalityForDocType 文档类型到模型模态的映射
func modalityForDocType(docType string) (registry.Modality, bool) {
	switch docType {
	case model.DocTypeImage:
		return registry.ModalityImage, true
	case model.DocTypePDF:
		return registry.ModalityPDF, true
	case model.DocTypeAudio:
		return registry.ModalityAudio, true
	case model.DocTypeVideo:
		return registry.ModalityVideo, true
	default:
		return "", false
	}
}

// isRichFor 判断文档是否应以富媒体形式发给该模型
func isRichFor(in Input, desc *registry.ChatModel) bool {
	mod, ok := modalityForDocType(in.Doc.Type)
	if !ok {
		return false
	}
	return desc.SupportsModality(mod) && len(in.Data) > 0
}

// BuildBlocks 生成用于持久化的提供商形状内容块。
// 富媒体块在前、文本块在后，各自保持上传顺序。
func BuildBlocks(inputs []Input, desc *registry.ChatModel) []model.JSON {
	var rich, text []model.JSON

	for _, in := range inputs {
		if isRichFor(in, desc) {
			if block := richBlock(in, desc.Provider); block != nil {
				rich = append(rich, block)
				continue
			}
		}
		if in.Text == "" {
			log.Printf("Warning: attachment %s has no usable content for model %s, skipping", in.Doc.Name, desc.Model)
			continue
		}
		text = append(text, model.JSON{
			"type": "text",
			"text": textBlockContent(in.Doc.Name, in.Text),
		})
	}

	return append(rich, text...)
}

// richBlock 按提供商生成富媒体块，不支持的组合返回 nil 以走文本回退
func richBlock(in Input, provider registry.Provider) model.JSON {
	encoded := base64.StdEncoding.EncodeToString(in.Data)

	switch provider {
	case registry.ProviderOpenAI:
		if in.Doc.Type != model.DocTypeImage {
			return nil
		}
		return model.JSON{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURL(in.MIME, encoded),
			},
		}

	case registry.ProviderAnthropic:
		switch in.Doc.Type {
		case model.DocTypeImage:
			return model.JSON{
				"type": "image",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": in.MIME,
					"data":       encoded,
				},
			}
		case model.DocTypePDF:
			return model.JSON{
				"type": "document",
				"source": map[string]interface{}{
					"type":       "base64",
					"media_type": "application/pdf",
					"data":       encoded,
				},
			}
		}
		return nil

	case registry.ProviderGemini:
		return model.JSON{
			"type":      "media",
			"mime_type": in.MIME,
			"data":      encoded,
		}
	}

	return nil
}

// BuildParts 生成发给模型的消息内容片段，与 BuildBlocks 同序
func BuildParts(inputs []Input, desc *registry.ChatModel) []schema.ChatMessagePart {
	var rich, text []schema.ChatMessagePart

	for _, in := range inputs {
		if isRichFor(in, desc) {
			if part, ok := richPart(in); ok {
				rich = append(rich, part)
				continue
			}
		}
		if in.Text == "" {
			continue
		}
		text = append(text, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeText,
			Text: textBlockContent(in.Doc.Name, in.Text),
		})
	}

	return append(rich, text...)
}

// richPart 将富媒体文档编码为 data URL 片段
func richPart(in Input) (schema.ChatMessagePart, bool) {
	url := dataURL(in.MIME, base64.StdEncoding.EncodeToString(in.Data))

	switch in.Doc.Type {
	case model.DocTypeImage:
		return schema.ChatMessagePart{
			Type:     schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{URL: url},
		}, true
	case model.DocTypePDF:
		return schema.ChatMessagePart{
			Type:    schema.ChatMessagePartTypeFileURL,
			FileURL: &schema.ChatMessageFileURL{URL: url, Name: in.Doc.Name},
		}, true
	case model.DocTypeAudio:
		return schema.ChatMessagePart{
			Type:     schema.ChatMessagePartTypeAudioURL,
			AudioURL: &schema.ChatMessageAudioURL{URL: url},
		}, true
	case model.DocTypeVideo:
		return schema.ChatMessagePart{
			Type:     schema.ChatMessagePartTypeVideoURL,
			VideoURL: &schema.ChatMessageVideoURL{URL: url},
		}, true
	}

	return schema.ChatMessagePart{}, false
}

func dataURL(mime, encoded string) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, encoded)
}
