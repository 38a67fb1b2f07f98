// Package document 管理上传文档的存储、分类与文本抽取
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/repository"
	"github.com/ashwinyue/next-chat/internal/service/file"
	"github.com/ashwinyue/next-chat/internal/service/types"
)

// Service 文档服务
type Service struct {
	repo       repository.DocumentRepository
	storage    file.Storage
	httpClient *http.Client
}

// NewService 创建文档服务
func NewService(repo repository.DocumentRepository, storage file.Storage) *Service {
	return &Service{
		repo:       repo,
		storage:    storage,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload 保存上传的文件并记录元数据
func (s *Service) Upload(ctx context.Context, name, contentType string, size int64, reader io.Reader) (*model.Document, error) {
	doc := &model.Document{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        model.DocumentTypeByMIME(contentType, name),
		ContentType: contentType,
		Size:        size,
		CreatedAt:   time.Now().UnixMilli(),
	}

	path, err := s.storage.Save(ctx, &file.SaveRequest{
		DocumentID:  doc.ID,
		FileName:    name,
		ContentType: contentType,
		Size:        size,
		Reader:      reader,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	doc.Path = path

	if err := s.repo.Create(doc); err != nil {
		// 避免留下孤儿文件
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			return nil, fmt.Errorf("failed to create document record: %w", err)
		}
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}
	return doc, nil
}

// UploadURL 记录一个链接型文档，内容在加载时抓取
func (s *Service) UploadURL(ctx context.Context, rawURL string) (*model.Document, error) {
	docType := model.DocTypeURL
	if isYouTubeURL(rawURL) {
		docType = model.DocTypeYoutube
	}

	doc := &model.Document{
		ID:        uuid.New().String(),
		Name:      rawURL,
		Type:      docType,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}
	return doc, nil
}

// Get 获取文档元数据
func (s *Service) Get(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", types.ErrDocumentNotFound, id)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return doc, nil
}

// GetContent 获取文档的原始字节，链接型文档返回空内容
func (s *Service) GetContent(ctx context.Context, id string) (*model.Document, []byte, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.Path == "" {
		return doc, nil, nil
	}

	reader, err := s.storage.Get(ctx, doc.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document content: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document content: %w", err)
	}
	return doc, data, nil
}

// List 列出文档
func (s *Service) List(ctx context.Context, offset, limit int) ([]*model.Document, error) {
	return s.repo.List(offset, limit)
}

// Delete 删除文档及其存储内容
func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.Path != "" {
		if err := s.storage.Delete(ctx, doc.Path); err != nil {
			return fmt.Errorf("failed to delete document content: %w", err)
		}
	}
	return s.repo.Delete(id)
}

// ExtractText 抽取文档全文，富媒体文档返回空字符串
func (s *Service) ExtractText(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	units, err := s.parse(ctx, doc)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(units))
	for _, u := range units {
		if u.Content != "" {
			texts = append(texts, u.Content)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}

// Load 抽取并切分文档，每个片段携带来源元数据，供检索索引使用
func (s *Service) Load(ctx context.Context, id string) ([]*schema.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	units, err := s.parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}

	chunks, err := s.split(ctx, units)
	if err != nil {
		return nil, err
	}

	for i, chunk := range chunks {
		if chunk.MetaData == nil {
			chunk.MetaData = make(map[string]any)
		}
		chunk.ID = fmt.Sprintf("%s-%d", doc.ID, i)
		chunk.MetaData["document_id"] = doc.ID
		chunk.MetaData["document_name"] = doc.Name
		chunk.MetaData["document_type"] = doc.Type
		chunk.MetaData["chunk_index"] = i
		chunk.MetaData["created_at"] = doc.CreatedAt
	}
	return chunks, nil
}

// isYouTubeURL 判断链接是否指向 YouTube
func isYouTubeURL(rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com") || strings.Contains(rawURL, "youtu.be")
}
