package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID               uuid.UUID
	OwnerID          string
	OriginalFilename string
	OriginalText     string
	CleanedText      sql.NullString
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
