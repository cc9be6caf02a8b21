package contactform

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/render"
)

func TestNewRegistry_DefaultIsHTML(t *testing.T) {
	registry, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if got := registry.List(); len(got) != 2 || !registry.Has("vanilla") || !registry.Has("tui") {
		t.Fatalf("unexpected renderers %v", got)
	}

	out, err := Render(context.Background(), registry, "", RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "Contact Form") {
		t.Fatalf("expected the form header")
	}

	if _, err := Render(context.Background(), registry, "pdf", RenderOptions{}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestRenderHTML_State(t *testing.T) {
	state := contact.NewState()
	state.SubmitValues(Values{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com"})

	out, err := RenderHTML(context.Background(), state)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `data-testid="emailDisplay"`) {
		t.Fatalf("expected results region")
	}

	empty, err := RenderHTML(context.Background(), nil)
	if err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if strings.Contains(string(empty), "You Submitted") {
		t.Fatalf("expected no results region for a nil state")
	}
}

func TestSubmit(t *testing.T) {
	if _, err := Submit(Values{}); !errors.Is(err, contact.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
	if _, err := fs.Stat(AssetsFS(), "contactform.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}
