package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumecleaner/internal/document"
	"github.com/muhammadolammi/resumecleaner/internal/render"
)

// Rewriter returns the cleaned version of a resume's text.
type Rewriter interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

// Upload is one uploaded file. Open is only called once the declared type, name
// and size hint have passed validation.
type Upload struct {
	OwnerID   string
	Filename  string
	MediaType string
	SizeHint  int64
	ObjectKey string
	Open      func(ctx context.Context) (io.ReadCloser, error)
}

// OpenBytes serves an in-memory body as an Upload.Open func.
func OpenBytes(data []byte) func(context.Context) (io.ReadCloser, error) {
	return func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

type UploadResult struct {
	ResumeID       uuid.UUID `json:"resume_id"`
	ExtractedText  string    `json:"extracted_text"`
	FileSize       int64     `json:"file_size"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	FileType       string    `json:"file_type"`
}

type RewriteResult struct {
	CleanedText string `json:"cleaned_text"`
}

type Pipeline struct {
	cfg      document.Config
	store    Store
	gate     *Gate
	rewriter Rewriter
	renderer *render.Renderer
	now      func() time.Time
}

func NewPipeline(cfg document.Config, store Store, rewriter Rewriter, renderer *render.Renderer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		gate:     NewGate(store),
		rewriter: rewriter,
		renderer: renderer,
		now:      time.Now,
	}
}

// Ingest validates, extracts and stores an upload. Nothing is written unless
// extraction, the minimum-content check and the dedup gate all pass.
func (p *Pipeline) Ingest(ctx context.Context, up Upload) (*UploadResult, error) {
	logCtx := slog.With("ownerId", up.OwnerID, "filename", up.Filename, "mime", up.MediaType)

	if err := p.cfg.Validate(up.MediaType, up.Filename, up.SizeHint).Err(); err != nil {
		logCtx.Info("Upload rejected by validation.", "error", err)
		return nil, err
	}

	data, err := p.readBody(ctx, up)
	if err != nil {
		return nil, err
	}
	if err := p.cfg.CheckSize(int64(len(data))); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", document.ErrValidation, ErrEmptyUpload)
	}

	extraction, err := p.cfg.Extract(data, up.MediaType)
	if err != nil {
		logCtx.Warn("Text extraction failed.", "error", err)
		return nil, err
	}

	if err := p.gate.Check(ctx, up.OwnerID, extraction.Text); err != nil {
		logCtx.Info("Upload rejected by dedup gate.", "error", err)
		return nil, err
	}

	now := p.now().UTC()
	rec := &Record{
		ID:               uuid.New(),
		OwnerID:          up.OwnerID,
		OriginalFilename: up.Filename,
		OriginalText:     extraction.Text,
		FileSize:         int64(len(data)),
		FileType:         up.MediaType,
		ObjectKey:        up.ObjectKey,
		Extraction:       *extraction,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := p.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save resume: %w", err)
	}

	logCtx.Info("Resume uploaded.", "resumeId", rec.ID, "bytes", rec.FileSize, "words", extraction.WordCount)
	return &UploadResult{
		ResumeID:       rec.ID,
		ExtractedText:  extraction.Text,
		FileSize:       rec.FileSize,
		WordCount:      extraction.WordCount,
		CharacterCount: extraction.CharacterCount,
		FileType:       up.MediaType,
	}, nil
}

func (p *Pipeline) readBody(ctx context.Context, up Upload) ([]byte, error) {
	if up.Open == nil {
		return nil, fmt.Errorf("%w: %w", document.ErrValidation, ErrEmptyUpload)
	}
	body, err := up.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer body.Close()

	// one byte past the limit is enough to tell that it was exceeded
	data, err := io.ReadAll(io.LimitReader(body, p.cfg.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// Rewrite cleans a stored resume and saves the result. Rewriting an already
// rewritten resume overwrites its cleaned text; concurrent rewrites of the same
// resume are last-writer-wins.
func (p *Pipeline) Rewrite(ctx context.Context, id uuid.UUID) (*RewriteResult, error) {
	rec, err := p.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load resume %s: %w", id, err)
	}

	cleaned, err := p.rewriter.Rewrite(ctx, rec.OriginalText)
	if err != nil {
		return nil, err
	}

	if err := p.store.UpdateCleanedText(ctx, id, cleaned, p.now().UTC()); err != nil {
		return nil, fmt.Errorf("save cleaned text for %s: %w", id, err)
	}
	slog.Info("Resume cleaned.", "resumeId", id, "chars", len(cleaned))
	return &RewriteResult{CleanedText: cleaned}, nil
}

// Download renders the cleaned text of a resume. The caller must Cleanup the
// returned Rendering.
func (p *Pipeline) Download(ctx context.Context, id uuid.UUID) (*render.Rendering, error) {
	rec, err := p.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load resume %s: %w", id, err)
	}
	if rec.CleanedText == nil || strings.TrimSpace(*rec.CleanedText) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotRewritten, id)
	}
	return p.renderer.Render(*rec.CleanedText, DownloadName(rec.OriginalFilename))
}

// DownloadName is the stem of the file a cleaned resume is served as.
func DownloadName(originalFilename string) string {
	base := filepath.Base(originalFilename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "resume"
	}
	return "cleaned_" + stem
}
