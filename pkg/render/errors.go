package render

import (
	"strings"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// ErrorsFromResult converts a validation result into renderer errors.
func ErrorsFromResult(result validation.Result) map[string][]string {
	if len(result.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(result.Issues))
	for _, issue := range result.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// MergeFormErrors concatenates and normalises form-level errors, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises an error payload whose keys may be JSON pointer
// or dotted paths ("/email", "body.email", "#/properties/email") onto the
// form's field names. Unknown keys become form-level errors so messages are
// never dropped.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		known[field.Name] = struct{}{}
	}

	for raw, messages := range payload {
		cleaned := normalizeMessages(messages)
		if len(cleaned) == 0 {
			continue
		}
		name, ok := fieldFromPath(raw, known)
		if !ok {
			mapping.Form = append(mapping.Form, cleaned...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = append(mapping.Fields[name], cleaned...)
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func fieldFromPath(raw string, known map[string]struct{}) (string, bool) {
	segments := strings.FieldsFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$' || r == '[' || r == ']'
	})
	// The last segment that names a field wins, so wrappers such as "body" or
	// "properties" are skipped.
	for i := len(segments) - 1; i >= 0; i-- {
		if _, ok := known[segments[i]]; ok {
			return segments[i], true
		}
	}
	return "", false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FirstError returns the first normalised message for a field.
func FirstError(errs map[string][]string, field string) string {
	messages := normalizeMessages(errs[field])
	if len(messages) == 0 {
		return ""
	}
	return messages[0]
}
