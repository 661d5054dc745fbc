// Package resume runs the upload, rewrite and download steps of the resume cleaner.
package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumecleaner/internal/document"
)

var (
	ErrDuplicateContent    = errors.New("resume already uploaded")
	ErrInsufficientContent = errors.New("extracted text is too short")
	ErrEmptyUpload         = errors.New("uploaded file is empty")
	ErrNotFound            = errors.New("resume not found")
	ErrNotRewritten        = errors.New("resume has not been cleaned yet")
)

type State string

const (
	StateIngested  State = "ingested"
	StateRewritten State = "rewritten"
)

type Record struct {
	ID               uuid.UUID
	OwnerID          string
	OriginalFilename string
	OriginalText     string
	CleanedText      *string
	FileSize         int64
	FileType         string
	ObjectKey        string
	Extraction       document.ExtractionResult
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (r *Record) State() State {
	if r.CleanedText == nil {
		return StateIngested
	}
	return StateRewritten
}

// Store is the persistence collaborator. Lookups that find nothing return
// ErrNotFound.
type Store interface {
	FindByOwnerAndText(ctx context.Context, ownerID, text string) (*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Insert(ctx context.Context, rec *Record) error
	UpdateCleanedText(ctx context.Context, id uuid.UUID, text string, updatedAt time.Time) error
}
