package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

func extractDocx(data []byte) (*ExtractionResult, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: error processing DOCX: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	body, err := parseDocumentXML(doc.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("%w: error processing DOCX: %v", ErrExtractionFailed, err)
	}

	var textBuilder strings.Builder
	paragraphCount := 0
	for _, p := range body.paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		textBuilder.WriteString(p)
		textBuilder.WriteString("\n")
		paragraphCount++
	}

	var tableBuilder strings.Builder
	for _, table := range body.tables {
		for _, row := range table {
			var cells []string
			for _, cell := range row {
				if cell = strings.TrimSpace(cell); cell != "" {
					cells = append(cells, cell)
				}
			}
			if len(cells) > 0 {
				tableBuilder.WriteString(strings.Join(cells, " | "))
				tableBuilder.WriteString("\n")
			}
		}
	}
	if tableBuilder.Len() > 0 {
		textBuilder.WriteString("\n--- Tables ---\n")
		textBuilder.WriteString(tableBuilder.String())
	}

	result, err := newResult(MethodDOCX, textBuilder.String(),
		"no readable text found in the DOCX file; the file might be empty or corrupted")
	if err != nil {
		return nil, err
	}
	result.ParagraphCount = paragraphCount
	result.TableCount = len(body.tables)
	return result, nil
}

// docxBody holds the body-level paragraphs and tables of word/document.xml in
// document order. A table is a list of rows, a row a list of cell texts.
type docxBody struct {
	paragraphs []string
	tables     [][][]string
}

// parseDocumentXML walks word/document.xml. Paragraph text follows the run model:
// w:t carries text, w:tab is a tab, w:br and w:cr are line breaks. Only runs of the
// paragraph itself count, so text boxes and drawings anchored in a run are left
// out. Cell text is the cell's own paragraphs joined by newlines; nested tables
// are not descended into.
func parseDocumentXML(content string) (*docxBody, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	body := &docxBody{}

	var (
		stack      []string
		tableDepth = -1
		paraDepth  = -1
		runDepth   = -1
		paraInCell bool
		inText     bool
		para       strings.Builder
		cellParas  []string
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth := len(stack)
			parent := ""
			if depth > 0 {
				parent = stack[depth-1]
			}
			name := t.Name.Local

			switch {
			case name == "p" && parent == "body":
				para.Reset()
				paraDepth, paraInCell = depth, false
			case name == "tbl" && parent == "body":
				body.tables = append(body.tables, nil)
				tableDepth = depth
			case tableDepth >= 0 && name == "tr" && depth == tableDepth+1:
				last := len(body.tables) - 1
				body.tables[last] = append(body.tables[last], nil)
			case tableDepth >= 0 && name == "tc" && depth == tableDepth+2:
				cellParas = nil
			case tableDepth >= 0 && name == "p" && depth == tableDepth+3:
				para.Reset()
				paraDepth, paraInCell = depth, true
			case paraDepth >= 0 && name == "r" && paragraphRun(stack, paraDepth, depth):
				runDepth = depth
			case runDepth >= 0 && depth == runDepth+1:
				switch name {
				case "t":
					inText = true
				case "tab":
					para.WriteString("\t")
				case "br", "cr":
					para.WriteString("\n")
				}
			}
			stack = append(stack, name)

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			stack = stack[:len(stack)-1]
			depth := len(stack)
			name := t.Name.Local

			switch {
			case name == "t":
				inText = false
			case name == "r" && depth == runDepth:
				runDepth = -1
			case name == "p" && depth == paraDepth:
				if paraInCell {
					cellParas = append(cellParas, para.String())
				} else {
					body.paragraphs = append(body.paragraphs, para.String())
				}
				paraDepth, runDepth = -1, -1
			case tableDepth >= 0 && name == "tc" && depth == tableDepth+2:
				table := body.tables[len(body.tables)-1]
				row := len(table) - 1
				if row >= 0 {
					table[row] = append(table[row], strings.Join(cellParas, "\n"))
				}
			case name == "tbl" && depth == tableDepth:
				tableDepth = -1
			}
		}
	}

	return body, nil
}

// runContainers are the inline wrappers whose runs still belong to the paragraph.
var runContainers = map[string]bool{
	"hyperlink": true,
	"ins":       true,
	"smartTag":  true,
}

// paragraphRun reports whether a run starting at depth belongs to the paragraph
// at paraDepth, directly or through one inline wrapper.
func paragraphRun(stack []string, paraDepth, depth int) bool {
	switch depth {
	case paraDepth + 1:
		return true
	case paraDepth + 2:
		return runContainers[stack[paraDepth+1]]
	}
	return false
}
