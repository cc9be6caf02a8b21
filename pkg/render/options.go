package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/contact"
)

// RenderOptions describe per-request data renderers use to customise their
// output without touching the form model.
type RenderOptions struct {
	// Action overrides the form's submit URL.
	Action string
	// ChangeAction is where single-field updates are posted. Empty disables
	// the per-field update hooks.
	ChangeAction string
	// Values pre-populates controls keyed by field name.
	Values map[string]string
	// Errors surfaces validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// Submitted, when set, renders the results region echoing these values.
	Submitted *contact.Values
	// HiddenFields are emitted as hidden inputs (session id, tokens).
	HiddenFields map[string]string
	// Theme carries the resolved go-theme selection.
	Theme *theme.RendererConfig
}

// OptionsFromState builds render options from a form state: current values,
// errors for validated fields, and the last submission.
func OptionsFromState(state *contact.State) RenderOptions {
	if state == nil {
		return RenderOptions{}
	}
	opts := RenderOptions{
		Values: state.Values().Map(),
		Errors: ErrorsFromResult(state.Errors()),
	}
	if submitted, ok := state.Submitted(); ok {
		opts.Submitted = &submitted
	}
	return opts
}

// ErrorCount returns the number of field messages carried by the options.
func (o RenderOptions) ErrorCount() int {
	count := 0
	for _, messages := range o.Errors {
		count += len(normalizeMessages(messages))
	}
	return count
}
