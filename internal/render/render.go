package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font/gofont/goregular"
)

const ContentType = "application/pdf"

var ErrRenderFailed = errors.New("pdf rendering failed")

// Style is the single paragraph style used for every block. The family is
// registered from the embedded Go Regular TrueType font, so any Unicode text
// is written as is.
type Style struct {
	FontFamily  string
	FontSize    float64
	SpaceAfter  float64
	LeftIndent  float64
	RightIndent float64
}

func DefaultStyle() Style {
	return Style{
		FontFamily: "Go",
		FontSize:   11,
		SpaceAfter: 6,
	}
}

// Renderer writes PDFs into unique directories under Dir.
type Renderer struct {
	Dir   string
	Style Style
}

// New returns a Renderer writing under dir, or the OS temp dir when dir is empty.
func New(dir string) *Renderer {
	api.DisableConfigDir()
	return &Renderer{Dir: dir, Style: DefaultStyle()}
}

// Rendering is a PDF written to temporary storage. The caller owns the file and
// must call Cleanup once it has been streamed.
type Rendering struct {
	Path        string
	Filename    string
	ContentType string
	Paragraphs  int
	Spacers     int
	Pages       int
}

func (r *Rendering) Open() (*os.File, error) {
	return os.Open(r.Path)
}

func (r *Rendering) Cleanup() error {
	return os.RemoveAll(filepath.Dir(r.Path))
}

// WriteTo streams the rendered file into w.
func (r *Rendering) WriteTo(w io.Writer) (int64, error) {
	f, err := r.Open()
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}

// Render lays text out and writes it to <dir>/<unique>/<name>.pdf. name is the
// file stem; ".pdf" is always appended.
func (r *Renderer) Render(text, name string) (*Rendering, error) {
	name = filepath.Base(name)
	logCtx := slog.With("filename", name+".pdf")

	blocks := Layout(text)
	doc, paragraphs, spacers := r.draw(blocks)
	if err := doc.Error(); err != nil {
		logCtx.Error("Failed to lay out PDF.", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	dir, err := os.MkdirTemp(r.Dir, "render-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp dir: %v", ErrRenderFailed, err)
	}
	path := filepath.Join(dir, name+".pdf")

	if err := doc.OutputFileAndClose(path); err != nil {
		os.RemoveAll(dir)
		logCtx.Error("Failed to write PDF.", "error", err, "path", path)
		return nil, fmt.Errorf("%w: write %s: %v", ErrRenderFailed, path, err)
	}

	pages, err := pageCount(path)
	if err != nil {
		os.RemoveAll(dir)
		logCtx.Error("Rendered PDF did not validate.", "error", err, "path", path)
		return nil, fmt.Errorf("%w: validate %s: %v", ErrRenderFailed, path, err)
	}

	logCtx.Info("Rendered PDF.", "paragraphs", paragraphs, "spacers", spacers, "pages", pages)
	return &Rendering{
		Path:        path,
		Filename:    name + ".pdf",
		ContentType: ContentType,
		Paragraphs:  paragraphs,
		Spacers:     spacers,
		Pages:       pages,
	}, nil
}

func (r *Renderer) draw(blocks []Block) (*fpdf.Fpdf, int, int) {
	style := r.Style
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(72+style.LeftIndent, 72, 72+style.RightIndent)
	doc.SetAutoPageBreak(true, 72)
	doc.AddUTF8FontFromBytes(style.FontFamily, "", goregular.TTF)
	doc.AddPage()
	doc.SetFont(style.FontFamily, "", style.FontSize)
	lineHeight := style.FontSize * 1.2

	paragraphs, spacers := 0, 0
	for _, b := range blocks {
		switch b.Kind {
		case Paragraph:
			doc.MultiCell(0, lineHeight, strings.Join(b.Lines, "\n"), "", "L", false)
			doc.Ln(style.SpaceAfter)
			paragraphs++
		case Spacer:
			doc.Ln(SpacerHeight)
			spacers++
		}
	}
	return doc, paragraphs, spacers
}

func pageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}
