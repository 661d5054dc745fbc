package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const createResume = `-- name: CreateResume :exec
INSERT INTO resumes (
    id, owner_id, original_filename, original_text, file_size, file_type, object_key,
    extraction_method, word_count, character_count, page_count, paragraph_count, table_count,
    created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

type CreateResumeParams struct {
	ID               uuid.UUID
	OwnerID          string
	OriginalFilename string
	OriginalText     string
	FileSize         int64
	FileType         string
	ObjectKey        string
	ExtractionMethod string
	WordCount        int32
	CharacterCount   int32
	PageCount        int32
	ParagraphCount   int32
	TableCount       int32
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (q *Queries) CreateResume(ctx context.Context, arg CreateResumeParams) error {
	_, err := q.db.ExecContext(ctx, createResume,
		arg.ID,
		arg.OwnerID,
		arg.OriginalFilename,
		arg.OriginalText,
		arg.FileSize,
		arg.FileType,
		arg.ObjectKey,
		arg.ExtractionMethod,
		arg.WordCount,
		arg.CharacterCount,
		arg.PageCount,
		arg.ParagraphCount,
		arg.TableCount,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getResumeByID = `-- name: GetResumeByID :one
SELECT id, owner_id, original_filename, original_text, cleaned_text, file_size, file_type, object_key, extraction_method, word_count, character_count, page_count, paragraph_count, table_count, created_at, updated_at FROM resumes WHERE id=$1
`

func (q *Queries) GetResumeByID(ctx context.Context, id uuid.UUID) (Resume, error) {
	row := q.db.QueryRowContext(ctx, getResumeByID, id)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.OriginalFilename,
		&i.OriginalText,
		&i.CleanedText,
		&i.FileSize,
		&i.FileType,
		&i.ObjectKey,
		&i.ExtractionMethod,
		&i.WordCount,
		&i.CharacterCount,
		&i.PageCount,
		&i.ParagraphCount,
		&i.TableCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getResumeByOwnerAndText = `-- name: GetResumeByOwnerAndText :one
SELECT id, owner_id, original_filename, original_text, cleaned_text, file_size, file_type, object_key, extraction_method, word_count, character_count, page_count, paragraph_count, table_count, created_at, updated_at FROM resumes WHERE owner_id=$1 AND md5(original_text)=md5($2) AND original_text=$2 LIMIT 1
`

type GetResumeByOwnerAndTextParams struct {
	OwnerID      string
	OriginalText string
}

func (q *Queries) GetResumeByOwnerAndText(ctx context.Context, arg GetResumeByOwnerAndTextParams) (Resume, error) {
	row := q.db.QueryRowContext(ctx, getResumeByOwnerAndText, arg.OwnerID, arg.OriginalText)
	var i Resume
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.OriginalFilename,
		&i.OriginalText,
		&i.CleanedText,
		&i.FileSize,
		&i.FileType,
		&i.ObjectKey,
		&i.ExtractionMethod,
		&i.WordCount,
		&i.CharacterCount,
		&i.PageCount,
		&i.ParagraphCount,
		&i.TableCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateResumeCleanedText = `-- name: UpdateResumeCleanedText :execrows
UPDATE resumes
SET cleaned_text=$1, updated_at=$2
WHERE id=$3
`

type UpdateResumeCleanedTextParams struct {
	CleanedText sql.NullString
	UpdatedAt   time.Time
	ID          uuid.UUID
}

func (q *Queries) UpdateResumeCleanedText(ctx context.Context, arg UpdateResumeCleanedTextParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateResumeCleanedText, arg.CleanedText, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
