package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/service"
)

// SettingsHandler 设置处理器
type SettingsHandler struct {
	svc *service.Services
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(svc *service.Services) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GetSettings 获取当前设置
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Settings.Get(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, settings)
}

// UpdateSettings 部分更新设置，未出现的字段保持原值
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var patch model.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	settings, err := h.svc.Settings.Update(c.Request.Context(), patch)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, settings)
}

// ResetSettings 恢复默认设置
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	settings, err := h.svc.Settings.Reset(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, settings)
}

// RefreshModels 重新探测模型来源并刷新模型目录
func (h *SettingsHandler) RefreshModels(c *gin.Context) {
	settings, err := h.svc.Settings.RefreshModels(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, settings)
}
