package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cloudwego/eino-ext/components/document/parser/docx"
	"github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/next-chat/internal/model"
)

// 超过该长度的文本在 Load 时切分
const splitThreshold = 2000

// parse 按文档类型抽取文本单元，富媒体类型返回空结果
func (s *Service) parse(ctx context.Context, doc *model.Document) ([]*schema.Document, error) {
	switch doc.Type {
	case model.DocTypeImage, model.DocTypeAudio, model.DocTypeVideo:
		// 富媒体没有可抽取的文本
		return nil, nil
	case model.DocTypeURL:
		return s.parseURL(ctx, doc.Name)
	case model.DocTypeYoutube:
		return s.parseYouTube(ctx, doc.Name)
	}

	_, data, err := s.GetContent(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	fileParser, err := newParser(ctx, doc.Type)
	if err != nil {
		return nil, err
	}

	units, err := fileParser.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", doc.Type, err)
	}
	return units, nil
}

// newParser 按文档类型创建解析器
func newParser(ctx context.Context, docType string) (einoparser.Parser, error) {
	switch docType {
	case model.DocTypePDF:
		return pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
	case model.DocTypeDocx, model.DocTypeDoc:
		return docx.NewDocxParser(ctx, &docx.Config{
			ToSections:      false,
			IncludeComments: false,
			IncludeHeaders:  true,
			IncludeFooters:  false,
			IncludeTables:   true,
		})
	case model.DocTypeHTML:
		bodySelector := "body"
		return html.NewParser(ctx, &html.Config{Selector: &bodySelector})
	default:
		return &textParser{}, nil
	}
}

// parseURL 抓取网页并抽取正文
func (s *Service) parseURL(ctx context.Context, rawURL string) ([]*schema.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
	}

	bodySelector := "body"
	htmlParser, err := html.NewParser(ctx, &html.Config{Selector: &bodySelector})
	if err != nil {
		return nil, fmt.Errorf("failed to create html parser: %w", err)
	}

	units, err := htmlParser.Parse(ctx, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse web page: %w", err)
	}
	return units, nil
}

// parseYouTube 通过 oEmbed 接口获取视频的标题信息
func (s *Service) parseYouTube(ctx context.Context, videoURL string) ([]*schema.Document, error) {
	oembedURL := "https://www.youtube.com/oembed?format=json&url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch video metadata: status %d", resp.StatusCode)
	}

	var meta struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode video metadata: %w", err)
	}

	content := fmt.Sprintf("YouTube video: %s by %s (%s)", meta.Title, meta.AuthorName, videoURL)
	return []*schema.Document{{Content: content, MetaData: make(map[string]any)}}, nil
}

// split 对超长文本单元做递归切分，短文本原样返回
func (s *Service) split(ctx context.Context, units []*schema.Document) ([]*schema.Document, error) {
	needsSplit := false
	for _, u := range units {
		if len(u.Content) > splitThreshold {
			needsSplit = true
			break
		}
	}
	if !needsSplit {
		return units, nil
	}

	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   512,
		OverlapSize: 50,
		Separators:  []string{"\n\n", "\n", ". ", "。", "? ", "？", "! ", "！", ", ", "，", " ", ""},
		KeepType:    recursive.KeepTypeNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	chunks, err := splitter.Transform(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("splitter failed: %w", err)
	}
	return chunks, nil
}

// textParser 纯文本解析器
type textParser struct{}

func (p *textParser) Parse(_ context.Context, reader io.Reader, opts ...einoparser.Option) ([]*schema.Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read: %w", err)
	}
	if len(content) == 0 {
		return []*schema.Document{}, nil
	}
	return []*schema.Document{{Content: string(content), MetaData: make(map[string]any)}}, nil
}
