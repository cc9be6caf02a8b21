package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
	rendertemplate "github.com/goliatone/go-contactform/pkg/render/template"
	"github.com/goliatone/go-contactform/pkg/render/template/gotemplate"
)

const formTemplate = "templates/form.tpl"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	stylesheets      []string
	scripts          []string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/form.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet adds a <link rel="stylesheet"> to the output.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithScript adds a deferred <script> to the output. Scripts are only linked
// when the render carries a ChangeAction, since they drive per-field updates.
func WithScript(src string) Option {
	return func(cfg *config) {
		if src = strings.TrimSpace(src); src != "" {
			cfg.scripts = append(cfg.scripts, src)
		}
	}
}

// Renderer produces server-rendered HTML for the contact form.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	stylesheets []string
	scripts     []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		source := gotemplate.WithFS(cfg.templateFS)
		if cfg.templateDir != "" {
			source = gotemplate.WithBaseDir(cfg.templateDir)
		} else if cfg.templateFS == nil {
			source = gotemplate.WithFS(TemplatesFS())
		}
		engine, err := gotemplate.New(
			source,
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithGlobalData(map[string]any{"error_testid": TestIDError}),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, stylesheets: cfg.stylesheets, scripts: cfg.scripts}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the form, inline errors for every field listed in
// options.Errors, and the results region when options.Submitted is set.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, r.view(form, options))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) view(form model.FormModel, options render.RenderOptions) map[string]any {
	action := options.Action
	if action == "" {
		action = form.Endpoint
	}

	fields := make([]map[string]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		_, required := field.Rule(model.ValidationRuleRequired)
		fields = append(fields, map[string]any{
			"name":        field.Name,
			"id":          controlID(field.Name),
			"label":       field.Label,
			"required":    required || field.Required,
			"minlength":   minLength(field),
			"multiline":   field.Multiline,
			"input_type":  inputType(field),
			"placeholder": field.Placeholder,
			"description": sanitizeDescription(field.Description),
			"value":       options.Values[field.Name],
			"error":       render.FirstError(options.Errors, field.Name),
		})
	}

	hidden := make([]map[string]any, 0, len(options.HiddenFields))
	for _, h := range render.SortedHiddenFields(options.HiddenFields) {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	var scripts []string
	if options.ChangeAction != "" {
		scripts = append(scripts, r.scripts...)
	}
	data := map[string]any{
		"form": map[string]any{
			"title":        form.Title,
			"action":       action,
			"method":       "post",
			"submit_label": form.SubmitLabel,
		},
		"change_action": options.ChangeAction,
		"scripts":       scripts,
		"fields":        fields,
		"hidden_fields": hidden,
		"form_errors":   render.MergeFormErrors(options.FormErrors),
		"classes": map[string]any{
			"form":    string(ClassForm),
			"header":  string(ClassHeader),
			"field":   string(ClassField),
			"error":   string(ClassError),
			"actions": string(ClassActions),
			"results": string(ClassResults),
		},
	}

	if th := options.Theme; th != nil {
		data["theme"] = map[string]any{
			"name":    th.Theme,
			"variant": th.Variant,
			"style":   cssVarsStyle(th.CSSVars),
		}
		if th.AssetURL != nil {
			if href := th.AssetURL(StylesheetName); href != "" {
				stylesheets = append(stylesheets, href)
			}
		}
	}
	data["stylesheets"] = stylesheets

	if submitted := options.Submitted; submitted != nil {
		var rows []map[string]any
		for _, field := range form.Fields {
			value, err := submitted.Get(field.Name)
			if err != nil || (value == "" && !field.Required) {
				continue
			}
			rows = append(rows, map[string]any{
				"label":  field.Label,
				"value":  value,
				"testid": DisplayTestID(field.Name),
			})
		}
		data["submitted"] = rows
	}

	return data
}
