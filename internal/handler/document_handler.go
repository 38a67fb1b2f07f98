package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-chat/internal/service"
)

// DocumentHandler 文档处理器
type DocumentHandler struct {
	svc *service.Services
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(svc *service.Services) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Upload 上传文件附件
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, err)
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	doc, err := h.svc.Document.Upload(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, src)
	if err != nil {
		errorResponse(c, err)
		return
	}

	created(c, doc)
}

// UploadURL 以 URL 形式登记附件（网页或 YouTube 链接）
func (h *DocumentHandler) UploadURL(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	doc, err := h.svc.Document.UploadURL(c.Request.Context(), req.URL)
	if err != nil {
		errorResponse(c, err)
		return
	}

	created(c, doc)
}

// GetDocument 获取文档元数据
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.svc.Document.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, doc)
}

// GetContent 下载文档原始内容
func (h *DocumentHandler) GetContent(c *gin.Context) {
	doc, data, err := h.svc.Document.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

// GetText 获取文档抽取后的文本
func (h *DocumentHandler) GetText(c *gin.Context) {
	text, err := h.svc.Document.ExtractText(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{"text": text})
}

// ListDocuments 列出文档
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	page, size := getPagination(c)

	docs, err := h.svc.Document.List(c.Request.Context(), (page-1)*size, size)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, docs)
}

// DeleteDocument 删除文档及其存储内容
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.svc.Document.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
