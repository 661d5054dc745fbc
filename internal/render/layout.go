// Package render turns cleaned resume text back into a PDF.
package render

import (
	"strings"
	"unicode/utf8"
)

const (
	// WrapWidth is the column at which paragraph lines are reflowed.
	WrapWidth = 80
	// SpacerHeight is the vertical gap emitted for a blank source line, in points.
	SpacerHeight = 12.0
)

type BlockKind int

const (
	Paragraph BlockKind = iota
	Spacer
)

// Block is one element of the rendered document: a paragraph with its wrapped
// lines, or a spacer with no lines.
type Block struct {
	Kind  BlockKind
	Lines []string
}

// Layout splits text on newlines. Non-blank lines become paragraphs wrapped at
// WrapWidth, blank lines become spacers.
func Layout(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			blocks = append(blocks, Block{Kind: Spacer})
			continue
		}
		blocks = append(blocks, Block{Kind: Paragraph, Lines: Wrap(line, WrapWidth)})
	}
	return blocks
}

// Wrap breaks line on whitespace into lines of at most width runes. Words are
// never split, so a word longer than width gets a line of its own.
func Wrap(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	var (
		out     []string
		current strings.Builder
		curLen  int
	)
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+wordLen > width {
			out = append(out, current.String())
			current.Reset()
			curLen = 0
		}
		if curLen > 0 {
			current.WriteByte(' ')
			curLen++
		}
		current.WriteString(word)
		curLen += wordLen
	}
	if curLen > 0 {
		out = append(out, current.String())
	}
	return out
}
