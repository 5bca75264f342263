// Package merge concatenates single-page PDFs into one document.
package merge

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
)

// Pdfcpu merges in-process with the pdfcpu library.
type Pdfcpu struct {
	conf *model.Configuration
}

// NewPdfcpu creates a library merger with pdfcpu's default configuration.
func NewPdfcpu() *Pdfcpu {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Pdfcpu{conf: conf}
}

// Name implements sheet.Merger.
func (p *Pdfcpu) Name() string {
	return "pdfcpu"
}

// Available implements sheet.Merger. The library is linked in.
func (p *Pdfcpu) Available(context.Context) bool {
	return true
}

// Merge implements sheet.Merger.
func (p *Pdfcpu) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no input files", sheet.ErrMergeFailed)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := api.MergeCreateFile(inputs, output, false, p.conf); err != nil {
		_ = os.Remove(output)
		return fmt.Errorf("%w: %w", sheet.ErrMergeFailed, err)
	}
	return nil
}

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, errors.Join(fmt.Errorf("count pages of %s", path), err)
	}
	return n, nil
}
