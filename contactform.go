// Package contactform is the top-level entry point for rendering and
// submitting the contact form without wiring the sub-packages by hand.
package contactform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface validation errors.
type RenderOptions = render.RenderOptions

// Values carries the four contact fields.
type Values = contact.Values

// NewRegistry returns a registry holding the HTML renderer (the default) and
// the terminal renderer configured with tuiOptions.
func NewRegistry(vanillaOptions []vanilla.Option, tuiOptions ...tui.Option) (*render.Registry, error) {
	html, err := vanilla.New(vanillaOptions...)
	if err != nil {
		return nil, fmt.Errorf("contactform: vanilla renderer: %w", err)
	}
	terminal, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, fmt.Errorf("contactform: tui renderer: %w", err)
	}

	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(terminal); err != nil {
		return nil, err
	}
	return registry, nil
}

// Render renders the embedded form with the named renderer. An empty name
// selects the registry default.
func Render(ctx context.Context, registry *render.Registry, rendererName string, options RenderOptions) ([]byte, error) {
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	form, err := openapi.DefaultForm()
	if err != nil {
		return nil, fmt.Errorf("contactform: load form: %w", err)
	}
	return renderer.Render(ctx, form, options)
}

// RenderHTML renders the embedded form as HTML for the given form state. A
// nil state renders the empty, unsubmitted form.
func RenderHTML(ctx context.Context, state *contact.State, options ...vanilla.Option) ([]byte, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("contactform: vanilla renderer: %w", err)
	}
	form, err := openapi.DefaultForm()
	if err != nil {
		return nil, fmt.Errorf("contactform: load form: %w", err)
	}
	return html.Render(ctx, form, render.OptionsFromState(state))
}

// Submit validates values without session state. See contact.Submit.
func Submit(values Values) (Values, error) {
	return contact.Submit(values)
}
