package repository

import (
	"gorm.io/gorm"

	"github.com/ashwinyue/next-chat/internal/model"
)

// documentRepositoryImpl 文档元数据访问
type documentRepositoryImpl struct {
	db *gorm.DB
}

// NewDocumentRepository 创建文档仓库
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

// Create 创建文档记录
func (r *documentRepositoryImpl) Create(doc *model.Document) error {
	return r.db.Create(doc).Error
}

// GetByID 获取文档记录
func (r *documentRepositoryImpl) GetByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List 列出文档记录
func (r *documentRepositoryImpl) List(offset, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&docs).Error
	return docs, err
}

// Delete 删除文档记录
func (r *documentRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&model.Document{}, "id = ?", id).Error
}
