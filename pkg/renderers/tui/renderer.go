package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions: every
// field is prompted in form order, re-prompted while it fails validation, and
// the submitted values are serialized in the configured format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	confirmSubmit     bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme: Theme{
			ErrorPrefix: "Error: ",
		},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs one interactive session. opts.Values seed the prompt defaults;
// the result is the serialized submission.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := contact.NewState()
	for name, value := range opts.Values {
		if err := state.Change(name, value); err != nil && !errors.Is(err, contact.ErrUnknownField) {
			return nil, err
		}
	}

	submitted, err := r.Fill(ctx, form, state)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, submitted)
}

// Fill drives state through the prompts until a submit succeeds and returns
// the submitted values.
func (r *Renderer) Fill(ctx context.Context, form model.FormModel, state *contact.State) (contact.Values, error) {
	if title := strings.TrimSpace(form.Title); title != "" {
		if err := r.info(ctx, title); err != nil {
			return contact.Values{}, err
		}
	}

	for {
		for _, field := range form.Fields {
			if err := r.promptField(ctx, field, state); err != nil {
				return contact.Values{}, err
			}
		}

		if r.confirmSubmit {
			label := form.SubmitLabel
			if label == "" {
				label = "Submit"
			}
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label + "?", Default: true})
			if err != nil {
				return contact.Values{}, err
			}
			if !ok {
				continue
			}
		}

		result := state.Submit()
		if !result.Valid {
			for _, issue := range result.Issues {
				if err := r.warn(ctx, issue.Message); err != nil {
					return contact.Values{}, err
				}
			}
			continue
		}

		values, _ := state.Submitted()
		if r.submitTransformer != nil {
			transformed, err := r.submitTransformer(values)
			if err != nil {
				return contact.Values{}, fmt.Errorf("tui: submit transformer: %w", err)
			}
			values = transformed
		}
		return values, nil
	}
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, state *contact.State) error {
	label := displayLabel(field)
	help := displayHelp(field)

	for attempt := 1; ; attempt++ {
		current, err := state.Values().Get(field.Name)
		if err != nil {
			return err
		}

		var response string
		if field.Multiline {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: current,
				Help:    help,
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message: label,
				Default: current,
				Help:    help,
			})
		}
		if err != nil {
			return err
		}

		if err := state.Change(field.Name, response); err != nil {
			return err
		}
		issues := state.Errors().Filter(func(name string) bool { return name == field.Name })
		if issues.Valid {
			return nil
		}
		for _, issue := range issues.Issues {
			if err := r.warn(ctx, issue.Message); err != nil {
				return err
			}
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) warn(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(form model.FormModel, values contact.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, values)), nil
	default:
		out, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += "*"
	}
	return label
}

func displayHelp(field model.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	if field.Description != "" {
		return field.Description
	}
	return field.Placeholder
}

func encodeForm(values contact.Values) string {
	form := url.Values{}
	for name, value := range values.Map() {
		if value == "" {
			continue
		}
		form.Set(name, value)
	}
	return form.Encode()
}

// prettyPrint mirrors the HTML results region. Optional fields left empty are
// omitted.
func prettyPrint(form model.FormModel, values contact.Values) string {
	var b strings.Builder
	b.WriteString("You Submitted:\n")
	for _, field := range form.Fields {
		value, err := values.Get(field.Name)
		if err != nil || (value == "" && !field.Required) {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.Name
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}
	return b.String()
}
