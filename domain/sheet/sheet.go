// Package sheet provides the domain model for worksheet page batches.
package sheet

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Default plus-one batch values.
const (
	DefaultBatchName        = "plus-1"
	DefaultPageCount        = 10
	DefaultProblemsPerPage  = 10
	DefaultTemplateImport   = "/generators/addition.typ"
	DefaultTemplateFunction = "create-plus-one-sheet"
	DefaultSheetsDir        = "sheets/addition/plus-1"
	DefaultOutputPath       = "output/addition/plus-1-all.pdf"
)

// Batch describes a set of pages that are compiled and merged into one document.
type Batch struct {
	// Name identifies the batch in logs and results.
	Name string `json:"name" yaml:"name"`

	// Pages is the number of pages to build.
	Pages int `json:"pages" yaml:"pages"`

	// ProblemsPerPage is the number of problems each page covers.
	ProblemsPerPage int `json:"problems_per_page" yaml:"problems_per_page"`

	// TemplateImport is the template module imported by each descriptor.
	TemplateImport string `json:"template_import" yaml:"template_import"`

	// TemplateFunction is called with the page number.
	TemplateFunction string `json:"template_function" yaml:"template_function"`

	// SheetsDir receives the descriptor files.
	SheetsDir string `json:"sheets_dir" yaml:"sheets_dir"`

	// Output is the merged document path.
	Output string `json:"output" yaml:"output"`
}

// DefaultPlusOneBatch returns the 10-page addition-by-one batch.
func DefaultPlusOneBatch() Batch {
	return Batch{
		Name:             DefaultBatchName,
		Pages:            DefaultPageCount,
		ProblemsPerPage:  DefaultProblemsPerPage,
		TemplateImport:   DefaultTemplateImport,
		TemplateFunction: DefaultTemplateFunction,
		SheetsDir:        DefaultSheetsDir,
		Output:           DefaultOutputPath,
	}
}

// Resolve returns a copy whose relative paths are joined onto root.
func (b Batch) Resolve(root string) Batch {
	if !filepath.IsAbs(b.SheetsDir) {
		b.SheetsDir = filepath.Join(root, b.SheetsDir)
	}
	if !filepath.IsAbs(b.Output) {
		b.Output = filepath.Join(root, b.Output)
	}
	return b
}

// Validate checks that the batch can be built.
func (b Batch) Validate() error {
	switch {
	case b.Pages < 1:
		return fmt.Errorf("%w: pages must be at least 1, got %d", ErrInvalidBatch, b.Pages)
	case b.TemplateImport == "":
		return fmt.Errorf("%w: template import is required", ErrInvalidBatch)
	case b.TemplateFunction == "":
		return fmt.Errorf("%w: template function is required", ErrInvalidBatch)
	case b.SheetsDir == "":
		return fmt.Errorf("%w: sheets directory is required", ErrInvalidBatch)
	case b.Output == "":
		return fmt.Errorf("%w: output path is required", ErrInvalidBatch)
	}
	return nil
}

// PageList returns the pages of the batch. Compiled outputs are placed in workDir.
func (b Batch) PageList(workDir string) []Page {
	pages := make([]Page, b.Pages)
	for i := range pages {
		n := i + 1
		pages[i] = Page{
			Number:     n,
			Descriptor: filepath.Join(b.SheetsDir, fmt.Sprintf("sheet-%02d.typ", n)),
			Output:     filepath.Join(workDir, fmt.Sprintf("sheet-%02d.pdf", n)),
			Template:   b.TemplateImport,
			Function:   b.TemplateFunction,
			PerPage:    b.ProblemsPerPage,
		}
	}
	return pages
}

// Page is one page of a batch.
type Page struct {
	Number     int
	Descriptor string
	Output     string
	Template   string
	Function   string
	PerPage    int
}

// Source returns the descriptor text for the page.
func (p Page) Source() string {
	return fmt.Sprintf("#import %s: %s\n\n#%s(%d)\n", typstString(p.Template), p.Function, p.Function, p.Number)
}

var typstEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// typstString quotes s as a typst string literal. Other characters,
// including non-ASCII ones, are kept verbatim.
func typstString(s string) string {
	return `"` + typstEscaper.Replace(s) + `"`
}

// Addends returns the values k covered by the page, i.e. the page holds
// the problems k + 1 for k in ((n-1)*per, n*per].
func (p Page) Addends() []int {
	per := p.PerPage
	if per < 1 {
		per = DefaultProblemsPerPage
	}
	ks := make([]int, 0, per)
	for k := (p.Number-1)*per + 1; k <= p.Number*per; k++ {
		ks = append(ks, k)
	}
	return ks
}
