package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrValidation        = errors.New("invalid upload")
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptyDocument     = errors.New("no readable text")
	ErrExtractionFailed  = errors.New("text extraction failed")
)

type ValidationResult struct {
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
	FileSize     int64  `json:"file_size"`
	FileType     string `json:"file_type"`
}

// Err returns nil for a valid result and an ErrValidation otherwise.
func (v ValidationResult) Err() error {
	if v.IsValid {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, v.ErrorMessage)
}

// Validate decides on an upload from its declared media type, declared filename and
// size hint. A size hint of zero means the size is not known yet.
func (c Config) Validate(mediaType, filename string, sizeHint int64) ValidationResult {
	fileType := mediaType
	if fileType == "" {
		fileType = "unknown"
	}

	extensions, ok := c.SupportedTypes[mediaType]
	if !ok {
		return ValidationResult{
			ErrorMessage: fmt.Sprintf("Unsupported file type: %s. Only PDF and DOCX files are supported.", fileType),
			FileSize:     sizeHint,
			FileType:     fileType,
		}
	}

	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if !slices.Contains(extensions, ext) {
			return ValidationResult{
				ErrorMessage: fmt.Sprintf("File extension %s doesn't match content type %s", ext, mediaType),
				FileSize:     sizeHint,
				FileType:     mediaType,
			}
		}
	}

	if sizeHint > c.MaxFileSize {
		return ValidationResult{
			ErrorMessage: c.sizeMessage(sizeHint),
			FileSize:     sizeHint,
			FileType:     mediaType,
		}
	}

	return ValidationResult{IsValid: true, FileSize: sizeHint, FileType: mediaType}
}

// CheckSize enforces the size limit on an observed byte length.
func (c Config) CheckSize(size int64) error {
	if size > c.MaxFileSize {
		return fmt.Errorf("%w: %s", ErrValidation, c.sizeMessage(size))
	}
	return nil
}

func (c Config) sizeMessage(size int64) string {
	return fmt.Sprintf("File size (%.1fMB) exceeds maximum allowed size (%dMB)",
		float64(size)/1024/1024, c.MaxFileSize/1024/1024)
}
