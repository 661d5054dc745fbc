// Package document validates uploaded resumes and extracts their text.
package document

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxFileSize is the largest upload accepted (10MB)
	MaxFileSize = 10 * 1024 * 1024
)

// Config holds the supported-type table and the size limit. It is built once at
// start-up and shared read-only by the validator and the extraction dispatcher.
type Config struct {
	MaxFileSize    int64
	SupportedTypes map[string][]string
}

func DefaultConfig() Config {
	return Config{
		MaxFileSize: MaxFileSize,
		SupportedTypes: map[string][]string{
			MediaTypePDF:  {".pdf"},
			MediaTypeDOCX: {".docx"},
		},
	}
}

// Supports reports whether mediaType is in the supported-type table.
func (c Config) Supports(mediaType string) bool {
	_, ok := c.SupportedTypes[mediaType]
	return ok
}
