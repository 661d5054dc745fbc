package document

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Method names the extractor that produced a result.
type Method string

const (
	MethodPDF  Method = "pdf"
	MethodDOCX Method = "docx"
)

// ExtractionResult is the canonical output of every extractor.
type ExtractionResult struct {
	Text           string `json:"text"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
	PageCount      int    `json:"page_count,omitempty"`
	ParagraphCount int    `json:"paragraph_count,omitempty"`
	TableCount     int    `json:"table_count,omitempty"`
	Method         Method `json:"method"`
}

// MethodFor maps a declared media type to its extractor.
func MethodFor(mediaType string) (Method, error) {
	switch mediaType {
	case MediaTypePDF:
		return MethodPDF, nil
	case MediaTypeDOCX:
		return MethodDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

// Extract routes data to the extractor registered for mediaType. Types missing from
// the supported-type table are refused even if an extractor exists for them.
func (c Config) Extract(data []byte, mediaType string) (*ExtractionResult, error) {
	if !c.Supports(mediaType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
	method, err := MethodFor(mediaType)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodPDF:
		return extractPDF(data)
	case MethodDOCX:
		return extractDocx(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
}

// newResult trims raw text and fills in the counts, or fails with ErrEmptyDocument.
func newResult(method Method, raw, emptyMsg string) (*ExtractionResult, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, emptyMsg)
	}
	return &ExtractionResult{
		Text:           text,
		WordCount:      len(strings.Fields(text)),
		CharacterCount: utf8.RuneCountInString(text),
		Method:         method,
	}, nil
}
