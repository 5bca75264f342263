package compiler

import (
	"context"

	"github.com/felixgeelhaar/worksheet-go/domain/sheet"
	"github.com/felixgeelhaar/worksheet-go/infrastructure/render"
)

// Builtin renders plus-one pages natively, ignoring the descriptor's
// template. It lets the batch run where typst is not installed.
type Builtin struct {
	renderer *render.Renderer
}

// NewBuiltin creates a builtin compiler.
func NewBuiltin(renderer *render.Renderer) *Builtin {
	return &Builtin{renderer: renderer}
}

// Name implements sheet.Compiler.
func (b *Builtin) Name() string {
	return "builtin"
}

// Compile implements sheet.Compiler.
func (b *Builtin) Compile(ctx context.Context, page sheet.Page) error {
	if err := b.renderer.RenderPlusOnePageFile(ctx, page); err != nil {
		return &sheet.CompileError{Page: page.Number, Tool: b.Name(), Err: err}
	}
	return nil
}
