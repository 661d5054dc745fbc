package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (result *ExtractionResult, err error) {
	// the pdf reader panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: error processing PDF: %v", ErrExtractionFailed, r)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: error processing PDF: %v", ErrExtractionFailed, err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: error processing PDF page %d: %v", ErrExtractionFailed, i, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&textBuilder, "--- Page %d ---\n%s\n\n", i, text)
	}

	result, err = newResult(MethodPDF, textBuilder.String(),
		"no readable text found in the PDF; the file might be image-based or corrupted")
	if err != nil {
		return nil, err
	}
	result.PageCount = numPages
	return result, nil
}
