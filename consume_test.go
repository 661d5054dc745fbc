package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/muhammadolammi/resumecleaner/internal/database"
	"github.com/muhammadolammi/resumecleaner/internal/document"
	"github.com/muhammadolammi/resumecleaner/internal/render"
	"github.com/muhammadolammi/resumecleaner/internal/resume"
	"github.com/muhammadolammi/resumecleaner/internal/rewrite"
	"github.com/muhammadolammi/resumecleaner/internal/testdoc"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	opens   int
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens++
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjects) Put(_ context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("read %d bytes, want %d", len(data), size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

type upperService struct{ err error }

func (s upperService) Rewrite(_ context.Context, text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return strings.ToUpper(text), nil
}

func newTestWorker(t *testing.T, svc rewrite.Service) (*WorkerConfig, *memObjects, *resume.MemoryStore) {
	t.Helper()
	objects := newMemObjects()
	store := resume.NewMemoryStore()
	pipeline := resume.NewPipeline(document.DefaultConfig(), store, rewrite.NewAdapter(svc), render.New(t.TempDir()))
	return &WorkerConfig{Pipeline: pipeline, Objects: objects}, objects, store
}

func resumeBody(t *testing.T) []byte {
	t.Helper()
	var body []string
	for i := range 4 {
		body = append(body, testdoc.Paragraph(fmt.Sprintf("Role %d shipped services and mentored engineers across teams.", i+1)))
	}
	return testdoc.Docx(t, body...)
}

func uploadJob(owner, key string, data []byte) Job {
	return Job{
		Type:      jobUpload,
		OwnerID:   owner,
		ObjectKey: key,
		Filename:  "jane.docx",
		Mime:      document.MediaTypeDOCX,
		SizeBytes: int64(len(data)),
	}
}

func TestProcessJob_UploadRewriteRender(t *testing.T) {
	cfg, objects, store := newTestWorker(t, upperService{})
	ctx := context.Background()

	data := resumeBody(t)
	objects.objects["uploads/jane.docx"] = data

	update := processJob(ctx, cfg, uploadJob("owner-1", "uploads/jane.docx", data))
	if update["status"] != "completed" {
		t.Fatalf("upload status = %v, message = %v", update["status"], update["message"])
	}
	id, ok := update["resume_id"].(uuid.UUID)
	if !ok || id == uuid.Nil {
		t.Fatalf("upload resume_id = %v", update["resume_id"])
	}
	result := update["result"].(*resume.UploadResult)
	if result.WordCount < resume.MinWords {
		t.Errorf("word count = %d", result.WordCount)
	}
	if store.Inserts() != 1 {
		t.Errorf("inserts = %d, want 1", store.Inserts())
	}

	update = processJob(ctx, cfg, Job{Type: jobRewrite, ResumeID: id})
	if update["status"] != "completed" {
		t.Fatalf("rewrite status = %v, message = %v", update["status"], update["message"])
	}
	cleaned := update["result"].(*resume.RewriteResult).CleanedText
	if !strings.Contains(cleaned, "SHIPPED SERVICES") {
		t.Errorf("cleaned text = %q", cleaned)
	}

	update = processJob(ctx, cfg, Job{Type: jobRender, ResumeID: id})
	if update["status"] != "completed" {
		t.Fatalf("render status = %v, message = %v", update["status"], update["message"])
	}
	key := fmt.Sprintf("cleaned/%s/cleaned_jane.pdf", id)
	if update["object_key"] != key {
		t.Errorf("object_key = %v, want %s", update["object_key"], key)
	}
	pdf, ok := objects.objects[key]
	if !ok || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("rendered object missing or not a PDF")
	}
	if objects.types[key] != render.ContentType {
		t.Errorf("content type = %q", objects.types[key])
	}
}

func TestProcessJob_Statuses(t *testing.T) {
	cfg, objects, _ := newTestWorker(t, upperService{})
	ctx := context.Background()

	data := resumeBody(t)
	objects.objects["a.docx"] = data
	first := processJob(ctx, cfg, uploadJob("owner-1", "a.docx", data))
	if first["status"] != "completed" {
		t.Fatalf("first upload status = %v", first["status"])
	}

	tests := []struct {
		name string
		job  Job
		want string
	}{
		{"duplicate upload", uploadJob("owner-1", "a.docx", data), "duplicate"},
		{"unsupported type", Job{Type: jobUpload, OwnerID: "o", ObjectKey: "a.docx", Filename: "a.txt", Mime: "text/plain"}, "rejected"},
		{"oversized hint", Job{Type: jobUpload, OwnerID: "o", ObjectKey: "a.docx", Filename: "a.docx", Mime: document.MediaTypeDOCX, SizeBytes: document.MaxFileSize + 1}, "rejected"},
		{"missing object", uploadJob("owner-2", "missing.docx", data), "failed"},
		{"rewrite unknown resume", Job{Type: jobRewrite, ResumeID: uuid.New()}, "rejected"},
		{"render before rewrite", Job{Type: jobRender, ResumeID: first["resume_id"].(uuid.UUID)}, "rejected"},
		{"unknown type", Job{Type: "analyze"}, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update := processJob(ctx, cfg, tt.job)
			if update["status"] != tt.want {
				t.Errorf("status = %v, want %s (message %v)", update["status"], tt.want, update["message"])
			}
			if update["message"] == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestProcessJob_ValidationSkipsDownload(t *testing.T) {
	cfg, objects, _ := newTestWorker(t, upperService{})
	processJob(context.Background(), cfg, Job{Type: jobUpload, OwnerID: "o", ObjectKey: "x", Filename: "x.png", Mime: "image/png"})
	if objects.opens != 0 {
		t.Errorf("object opened %d times for a rejected upload", objects.opens)
	}
}

func TestProcessJob_RewriteFailure(t *testing.T) {
	cfg, objects, store := newTestWorker(t, upperService{err: context.DeadlineExceeded})
	ctx := context.Background()

	data := resumeBody(t)
	objects.objects["a.docx"] = data
	id := processJob(ctx, cfg, uploadJob("owner-1", "a.docx", data))["resume_id"].(uuid.UUID)

	update := processJob(ctx, cfg, Job{Type: jobRewrite, ResumeID: id})
	if update["status"] != "failed" {
		t.Errorf("status = %v, want failed", update["status"])
	}
	rec, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.CleanedText != nil {
		t.Errorf("cleaned text saved after failed rewrite: %q", *rec.CleanedText)
	}
}

func TestJobRoutingKey(t *testing.T) {
	id := uuid.New()
	if got := (Job{ResumeID: id, OwnerID: "o"}).routingKey(); got != "resume."+id.String() {
		t.Errorf("routingKey = %q", got)
	}
	if got := (Job{OwnerID: "o"}).routingKey(); got != "owner.o" {
		t.Errorf("routingKey = %q", got)
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	got, err := retry(3, func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 7, nil
	})
	if err != nil || got != 7 || calls != 2 {
		t.Errorf("retry = %d, %v after %d calls", got, err, calls)
	}
}

func TestInsertError(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "resumes_owner_text_idx"}
	if err := insertError(dup); !errors.Is(err, resume.ErrDuplicateContent) {
		t.Errorf("unique violation = %v, want ErrDuplicateContent", err)
	}
	other := &pq.Error{Code: "23502"}
	if err := insertError(other); errors.Is(err, resume.ErrDuplicateContent) {
		t.Errorf("not-null violation mapped to duplicate")
	}
	if insertError(nil) != nil {
		t.Error("nil error not passed through")
	}
	if !errors.Is(notFound(sql.ErrNoRows), resume.ErrNotFound) {
		t.Error("sql.ErrNoRows not mapped to ErrNotFound")
	}
}

func TestRecordFromRow(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	row := database.Resume{
		ID:               uuid.New(),
		OwnerID:          "owner-1",
		OriginalFilename: "cv.pdf",
		OriginalText:     "--- Page 1 ---\nhello",
		FileSize:         42,
		FileType:         document.MediaTypePDF,
		ExtractionMethod: "pdf",
		WordCount:        5,
		PageCount:        1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	rec := recordFromRow(row)
	if rec.State() != resume.StateIngested {
		t.Errorf("state = %s, want ingested", rec.State())
	}
	if rec.Extraction.Method != document.MethodPDF || rec.Extraction.PageCount != 1 {
		t.Errorf("extraction = %+v", rec.Extraction)
	}

	row.CleanedText = sql.NullString{String: "clean", Valid: true}
	rec = recordFromRow(row)
	if rec.State() != resume.StateRewritten || *rec.CleanedText != "clean" {
		t.Errorf("cleaned record = %+v", rec)
	}
}
