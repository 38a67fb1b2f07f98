package repository

import (
	"gorm.io/gorm"

	"github.com/ashwinyue/next-chat/internal/model"
)

// settingsRepositoryImpl 设置数据访问
type settingsRepositoryImpl struct {
	db *gorm.DB
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// GetMostRecent 获取最近保存的设置，不存在时返回 gorm.ErrRecordNotFound
func (r *settingsRepositoryImpl) GetMostRecent() (*model.Settings, error) {
	var settings model.Settings
	err := r.db.Order("updated_at DESC").First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save 保存设置，按主键覆盖
func (r *settingsRepositoryImpl) Save(settings *model.Settings) error {
	return r.db.Save(settings).Error
}
