// Package model 提供持久化数据模型
package model

import (
	"strings"
)

// 文档类型
const (
	DocTypePDF     = "pdf"
	DocTypeDocx    = "docx"
	DocTypeDoc     = "doc"
	DocTypeTxt     = "txt"
	DocTypeHTML    = "html"
	DocTypeURL     = "url"
	DocTypeImage   = "image"
	DocTypeVideo   = "video"
	DocTypeAudio   = "audio"
	DocTypeYoutube = "youtube"
)

// DocumentTypeMap 文档类型到文件扩展名的映射
// 未命中的扩展名按纯文本处理
var DocumentTypeMap = map[string][]string{
	DocTypePDF:   {"pdf"},
	DocTypeDocx:  {"docx"},
	DocTypeDoc:   {"doc"},
	DocTypeTxt:   {"txt"},
	DocTypeHTML:  {"html", "htm"},
	DocTypeImage: {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "ico", "webp"},
	DocTypeVideo: {"mp4", "mov", "avi", "wmv", "flv", "mpeg", "mpg", "m4v", "webm"},
	DocTypeAudio: {"mp3", "wav", "ogg", "m4a", "wma", "aac", "flac", "m4b", "m4p"},

	// 代码文件，类型即语言标签
	"cpp":      {"cpp"},
	"go":       {"go"},
	"java":     {"java"},
	"js":       {"js", "jsx", "ts", "tsx"},
	"php":      {"php"},
	"proto":    {"proto"},
	"python":   {"py", "ipynb"},
	"rst":      {"rst"},
	"ruby":     {"rb"},
	"rust":     {"rs"},
	"scala":    {"scala"},
	"swift":    {"swift"},
	"markdown": {"md", "mdx"},
	"latex":    {"tex"},
	"sol":      {"sol"},
}

// Document 附件文档元数据
// 文件字节单独存放在 Blob 存储中，按 Path 寻址；URL 类型不存字节
type Document struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	Name        string `json:"name" gorm:"size:512"`
	Path        string `json:"path" gorm:"size:1024"` // 存储路径或远程 URL
	Type        string `json:"type" gorm:"size:20;index"`
	ContentType string `json:"content_type" gorm:"size:128"`
	Size        int64  `json:"size"`
	CreatedAt   int64  `json:"created_at" gorm:"autoCreateTime:milli;index"` // Unix 毫秒
}

// TableName 指定表名
func (Document) TableName() string {
	return "documents"
}

// IsRichModality 判断文档类型是否属于富模态（需要模型侧原生支持）
func IsRichModality(docType string) bool {
	switch docType {
	case DocTypeImage, DocTypeAudio, DocTypeVideo, DocTypePDF:
		return true
	}
	return false
}

// DocumentTypeByExtension 按文件扩展名归类文档类型
func DocumentTypeByExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for docType, exts := range DocumentTypeMap {
		for _, e := range exts {
			if e == ext {
				return docType
			}
		}
	}
	return DocTypeTxt
}

// DocumentTypeByMIME 按 MIME 类型归类文档类型，无法识别时回退到扩展名归类
func DocumentTypeByMIME(mimeType, fileName string) string {
	mainType, subType, _ := strings.Cut(mimeType, "/")

	switch mainType {
	case "image":
		return DocTypeImage
	case "video":
		return DocTypeVideo
	case "audio":
		return DocTypeAudio
	}

	switch mimeType {
	case "application/pdf":
		return DocTypePDF
	case "application/msword":
		return DocTypeDoc
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return DocTypeDocx
	case "text/plain":
		return DocTypeTxt
	case "text/html":
		return DocTypeHTML
	case "text/markdown":
		return "markdown"
	}

	if t := DocumentTypeByExtension(subType); t != DocTypeTxt {
		return t
	}

	// 回退到文件名扩展归类
	if idx := strings.LastIndex(fileName, "."); idx >= 0 {
		return DocumentTypeByExtension(fileName[idx+1:])
	}
	return DocTypeTxt
}
