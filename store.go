package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/muhammadolammi/resumecleaner/internal/database"
	"github.com/muhammadolammi/resumecleaner/internal/document"
	"github.com/muhammadolammi/resumecleaner/internal/resume"
)

// postgresStore keeps resume records in the resumes table.
type postgresStore struct {
	DB *database.Queries
}

func (s *postgresStore) FindByOwnerAndText(ctx context.Context, ownerID, text string) (*resume.Record, error) {
	row, err := s.DB.GetResumeByOwnerAndText(ctx, database.GetResumeByOwnerAndTextParams{
		OwnerID:      ownerID,
		OriginalText: text,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return recordFromRow(row), nil
}

func (s *postgresStore) GetByID(ctx context.Context, id uuid.UUID) (*resume.Record, error) {
	row, err := s.DB.GetResumeByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return recordFromRow(row), nil
}

func (s *postgresStore) Insert(ctx context.Context, rec *resume.Record) error {
	err := s.DB.CreateResume(ctx, database.CreateResumeParams{
		ID:               rec.ID,
		OwnerID:          rec.OwnerID,
		OriginalFilename: rec.OriginalFilename,
		OriginalText:     rec.OriginalText,
		FileSize:         rec.FileSize,
		FileType:         rec.FileType,
		ObjectKey:        rec.ObjectKey,
		ExtractionMethod: string(rec.Extraction.Method),
		WordCount:        int32(rec.Extraction.WordCount),
		CharacterCount:   int32(rec.Extraction.CharacterCount),
		PageCount:        int32(rec.Extraction.PageCount),
		ParagraphCount:   int32(rec.Extraction.ParagraphCount),
		TableCount:       int32(rec.Extraction.TableCount),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	})
	return insertError(err)
}

func (s *postgresStore) UpdateCleanedText(ctx context.Context, id uuid.UUID, text string, updatedAt time.Time) error {
	n, err := s.DB.UpdateResumeCleanedText(ctx, database.UpdateResumeCleanedTextParams{
		CleanedText: sql.NullString{String: text, Valid: true},
		UpdatedAt:   updatedAt,
		ID:          id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return resume.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return resume.ErrNotFound
	}
	return err
}

// insertError turns a hit on the (owner, text) unique index into a duplicate.
// That index catches two identical uploads racing past the dedup lookup.
func insertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return fmt.Errorf("%w: %s", resume.ErrDuplicateContent, pqErr.Constraint)
	}
	return err
}

func recordFromRow(row database.Resume) *resume.Record {
	rec := &resume.Record{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		OriginalFilename: row.OriginalFilename,
		OriginalText:     row.OriginalText,
		FileSize:         row.FileSize,
		FileType:         row.FileType,
		ObjectKey:        row.ObjectKey,
		Extraction: document.ExtractionResult{
			Text:           row.OriginalText,
			WordCount:      int(row.WordCount),
			CharacterCount: int(row.CharacterCount),
			PageCount:      int(row.PageCount),
			ParagraphCount: int(row.ParagraphCount),
			TableCount:     int(row.TableCount),
			Method:         document.Method(row.ExtractionMethod),
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.CleanedText.Valid {
		cleaned := row.CleanedText.String
		rec.CleanedText = &cleaned
	}
	return rec
}
