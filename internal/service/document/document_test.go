package document

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/ashwinyue/next-chat/internal/model"
	"github.com/ashwinyue/next-chat/internal/service/file"
	"github.com/ashwinyue/next-chat/internal/service/types"
)

// mockDocumentRepo 内存文档仓库
type mockDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*model.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]*model.Document)}
}

func (m *mockDocumentRepo) Create(doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *mockDocumentRepo) GetByID(id string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *mockDocumentRepo) List(offset, limit int) ([]*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		copied := *doc
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockDocumentRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	storage, err := file.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return NewService(newMockDocumentRepo(), storage)
}

func TestUploadClassifiesAndStores(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "notes.txt", "text/plain", 5, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if doc.Type != model.DocTypeTxt {
		t.Errorf("expected txt type, got %s", doc.Type)
	}
	if doc.CreatedAt <= 0 {
		t.Errorf("expected unix-milli creation timestamp, got %d", doc.CreatedAt)
	}
	if doc.Path == "" {
		t.Error("expected stored path")
	}

	got, data, err := svc.GetContent(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected stored bytes, got %q", data)
	}
	if got.Name != "notes.txt" {
		t.Errorf("unexpected name %q", got.Name)
	}
}

func TestUploadClassifiesByExtensionWhenMIMEIsGeneric(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Upload(context.Background(), "report.pdf", "application/octet-stream", 4, strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if doc.Type != model.DocTypePDF {
		t.Errorf("expected pdf type from extension fallback, got %s", doc.Type)
	}
}

func TestUploadURLDetectsYouTube(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.UploadURL(ctx, "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("UploadURL failed: %v", err)
	}
	if doc.Type != model.DocTypeYoutube {
		t.Errorf("expected youtube type, got %s", doc.Type)
	}

	short, err := svc.UploadURL(ctx, "https://youtu.be/abc123")
	if err != nil {
		t.Fatalf("UploadURL failed: %v", err)
	}
	if short.Type != model.DocTypeYoutube {
		t.Errorf("expected youtube type for short link, got %s", short.Type)
	}

	plain, err := svc.UploadURL(ctx, "https://example.com/article")
	if err != nil {
		t.Fatalf("UploadURL failed: %v", err)
	}
	if plain.Type != model.DocTypeURL {
		t.Errorf("expected url type, got %s", plain.Type)
	}
}

func TestGetUnknownDocument(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, types.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestExtractTextFromPlainText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "notes.txt", "text/plain", 11, strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	text, err := svc.ExtractText(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtractTextFromImageIsEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "a.png", "image/png", 4, strings.NewReader("\x89PNG"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	text, err := svc.ExtractText(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text for image, got %q", text)
	}
}

func TestExtractTextFromWebPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>page content</p></body></html>"))
	}))
	defer server.Close()

	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.UploadURL(ctx, server.URL)
	if err != nil {
		t.Fatalf("UploadURL failed: %v", err)
	}

	text, err := svc.ExtractText(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "page content") {
		t.Errorf("expected extracted body text, got %q", text)
	}
}

func TestLoadAttachesProvenance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "notes.txt", "text/plain", 11, strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	units, err := svc.Load(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(units) == 0 {
		t.Fatal("expected at least one unit")
	}
	for _, u := range units {
		if u.MetaData["document_id"] != doc.ID {
			t.Errorf("unit missing document_id, got %v", u.MetaData["document_id"])
		}
		if u.MetaData["document_name"] != "notes.txt" {
			t.Errorf("unit missing document_name, got %v", u.MetaData["document_name"])
		}
	}
}

func TestDeleteRemovesContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "notes.txt", "text/plain", 5, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, doc.ID); !errors.Is(err, types.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound after delete, got %v", err)
	}
}
