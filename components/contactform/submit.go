package contactform

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/render"
)

// MessageSubmitFailed is shown when the submit handler fails with anything
// other than a *SubmitError.
const MessageSubmitFailed = "Your message could not be sent. Please try again."

// SubmitFunc receives a submission that passed validation, before the form
// captures it. Returning an error leaves the form unsubmitted.
type SubmitFunc func(ctx context.Context, values contact.Values) error

// SubmitError rejects an otherwise valid submission with messages for the
// user. Errors keys may be field names or paths such as "/email" or
// "body.email"; keys that name no field become form-level messages.
type SubmitError struct {
	Errors  map[string][]string
	Message string
}

func (e *SubmitError) Error() string {
	if e == nil {
		return "contactform: submission rejected"
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return "contactform: submission rejected: " + msg
	}
	return "contactform: submission rejected"
}

func (c *Component) accept(ctx context.Context) func(contact.Values) error {
	if c.opts.OnSubmit == nil {
		return nil
	}
	return func(values contact.Values) error {
		return c.opts.OnSubmit(ctx, values)
	}
}

// submitFailure maps a submit handler error onto a status and the messages
// rendered with the form.
func (c *Component) submitFailure(err error) (int, render.ErrorMapping) {
	var rejected *SubmitError
	if !errors.As(err, &rejected) || rejected == nil {
		c.opts.Logger.Error("submit handler failed", zap.Error(err))
		return http.StatusBadGateway, render.ErrorMapping{Form: []string{MessageSubmitFailed}}
	}

	mapping := render.MapErrorPayload(c.form, rejected.Errors)
	mapping.Form = render.MergeFormErrors(mapping.Form, rejected.Message)
	if len(mapping.Fields) == 0 && len(mapping.Form) == 0 {
		mapping.Form = []string{MessageSubmitFailed}
	}
	c.opts.Logger.Info("submission rejected by handler", zap.Strings("fields", mappedFields(mapping)))
	return http.StatusUnprocessableEntity, mapping
}

func (c *Component) writeAPISubmitFailure(w http.ResponseWriter, err error) {
	code, mapping := c.submitFailure(err)
	resp := apiErrorResponse{Error: strings.Join(mapping.Form, "; ")}
	if len(mapping.Fields) > 0 {
		resp.Errors = make(map[string]string, len(mapping.Fields))
		for name, messages := range mapping.Fields {
			resp.Errors[name] = messages[0]
		}
	}
	writeJSON(w, code, resp)
}

func mappedFields(mapping render.ErrorMapping) []string {
	names := make([]string, 0, len(mapping.Fields))
	for name := range mapping.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
