// Package render draws problem sets and batch pages as PDF with fpdf.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

const (
	marginMM    = 15.0
	rowHeightMM = 11.0
	titleSize   = 20.0
	textSize    = 14.0
)

// Options configures the renderer.
type Options struct {
	PageSize    string
	Columns     int
	RowsPerPage int
	FontFamily  string
	AnswerKey   bool
	Language    language.Tag
}

// DefaultOptions returns A4, two columns, Helvetica, with an answer key.
func DefaultOptions() Options {
	return Options{
		PageSize:    "A4",
		Columns:     2,
		RowsPerPage: 20,
		FontFamily:  "Helvetica",
		AnswerKey:   true,
		Language:    language.English,
	}
}

// Renderer lays out problems in numbered columns.
type Renderer struct {
	opts    Options
	caser   cases.Caser
	printer *message.Printer
}

// New creates a renderer. Zero option fields take their defaults.
func New(opts Options) *Renderer {
	d := DefaultOptions()
	if opts.PageSize == "" {
		opts.PageSize = d.PageSize
	}
	if opts.Columns <= 0 {
		opts.Columns = d.Columns
	}
	if opts.RowsPerPage <= 0 {
		opts.RowsPerPage = d.RowsPerPage
	}
	if opts.FontFamily == "" {
		opts.FontFamily = d.FontFamily
	}
	if opts.Language == language.Und {
		opts.Language = d.Language
	}
	return &Renderer{
		opts:    opts,
		caser:   cases.Title(opts.Language),
		printer: message.NewPrinter(opts.Language),
	}
}

// Title returns the display title for an operation, e.g. "Multiplication Practice".
func (r *Renderer) Title(op problem.Operation) string {
	return r.caser.String(op.String()) + " Practice"
}

// RenderSet writes the problem set, then an answer key when enabled.
func (r *Renderer) RenderSet(ctx context.Context, set *problem.Set, w io.Writer) error {
	op := set.Metadata.Operation
	if !op.IsValid() {
		return fmt.Errorf("%w: %q", problem.ErrInvalidOperation, op)
	}

	subtitle := r.printer.Sprintf("%d problems, seed %d", set.Metadata.Count, set.Metadata.Seed)
	if set.Metadata.Description != "" {
		subtitle = set.Metadata.Description + " - " + subtitle
	}

	questions := make([]string, len(set.Problems))
	answers := make([]string, len(set.Problems))
	for i, p := range set.Problems {
		questions[i] = fmt.Sprintf("%d)   %d %s %d = ______", i+1, p.A, op.Symbol(), p.B)
		answers[i] = fmt.Sprintf("%d)   %s", i+1, p.String(op))
	}

	doc := r.newDocument(r.Title(op))
	if err := r.layout(ctx, doc, r.Title(op), subtitle, questions); err != nil {
		return err
	}
	if r.opts.AnswerKey {
		if err := r.layout(ctx, doc, r.Title(op)+": Answer Key", subtitle, answers); err != nil {
			return err
		}
	}
	return doc.Output(w)
}

// RenderSetFile writes the rendered set to path, creating parent directories.
func (r *Renderer) RenderSetFile(ctx context.Context, set *problem.Set, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.RenderSet(ctx, set, w)
	})
}

// RenderPlusOnePage draws one batch page with the problems k + 1.
func (r *Renderer) RenderPlusOnePage(ctx context.Context, page sheet.Page, w io.Writer) error {
	title := r.printer.Sprintf("Plus One: Sheet %d", page.Number)
	ks := page.Addends()
	subtitle := r.printer.Sprintf("Problems %d to %d", ks[0], ks[len(ks)-1])

	items := make([]string, len(ks))
	for i, k := range ks {
		items[i] = fmt.Sprintf("%d)   %d + 1 = ______", i+1, k)
	}

	doc := r.newDocument(title)
	if err := r.layout(ctx, doc, title, subtitle, items); err != nil {
		return err
	}
	return doc.Output(w)
}

// RenderPlusOnePageFile writes a batch page to page.Output.
func (r *Renderer) RenderPlusOnePageFile(ctx context.Context, page sheet.Page) error {
	return writeFile(page.Output, func(w io.Writer) error {
		return r.RenderPlusOnePage(ctx, page, w)
	})
}

func (r *Renderer) newDocument(title string) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", r.opts.PageSize, "")
	doc.SetMargins(marginMM, marginMM, marginMM)
	doc.SetAutoPageBreak(false, marginMM)
	doc.SetTitle(title, true)
	doc.SetCreator("worksheet", true)
	return doc
}

// layout places items row-major into the configured columns, adding pages
// as rows run out. Each call starts on a new page.
func (r *Renderer) layout(ctx context.Context, doc *fpdf.Fpdf, title, subtitle string, items []string) error {
	tr := doc.UnicodeTranslatorFromDescriptor("")
	pageW, _ := doc.GetPageSize()
	colW := (pageW - 2*marginMM) / float64(r.opts.Columns)
	perPage := r.opts.Columns * r.opts.RowsPerPage

	pages := max(1, (len(items)+perPage-1)/perPage)

	for pg := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc.AddPage()
		doc.SetFont(r.opts.FontFamily, "B", titleSize)
		doc.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")
		doc.SetFont(r.opts.FontFamily, "", textSize-4)
		doc.CellFormat(0, 8, tr(subtitle), "", 1, "C", false, 0, "")
		doc.Ln(6)

		top := doc.GetY()
		doc.SetFont(r.opts.FontFamily, "", textSize)
		start := pg * perPage
		end := min(start+perPage, len(items))
		for i := start; i < end; i++ {
			slot := i - start
			row, col := slot/r.opts.Columns, slot%r.opts.Columns
			doc.SetXY(marginMM+float64(col)*colW, top+float64(row)*rowHeightMM)
			doc.CellFormat(colW, rowHeightMM, tr(items[i]), "", 0, "L", false, 0, "")
		}
	}

	if doc.Err() {
		return fmt.Errorf("render pdf: %w", doc.Error())
	}
	return nil
}

func writeFile(path string, render func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path) // #nosec G304 -- output path comes from the user
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return render(f)
}
