package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contactform/pkg/model"
)

const extensionNamespace = "x-formgen"

var (
	// ErrOperationNotFound is returned when the requested operation id is not
	// declared by the document.
	ErrOperationNotFound  = errors.New("openapi: operation not found")
	errRequestBodyMissing = errors.New("openapi: operation has no request body schema")
)

// Option configures form construction.
type Option func(*options)

type options struct {
	labeler func(string) string
}

// WithLabeler overrides the label derived from property names when the
// document does not declare one.
func WithLabeler(labeler func(string) string) Option {
	return func(o *options) {
		if labeler != nil {
			o.labeler = labeler
		}
	}
}

// BuildForm converts the request body of operationID into a FormModel.
func BuildForm(doc *openapi3.T, operationID string, opts ...Option) (model.FormModel, error) {
	cfg := options{labeler: model.DefaultLabeler}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if doc == nil || doc.Paths == nil {
		return model.FormModel{}, errNoPaths
	}

	path, method, op := findOperation(doc, operationID)
	if op == nil {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return model.FormModel{}, fmt.Errorf("%w: %q", errRequestBodyMissing, operationID)
	}

	opExt := namespaceExtension(op.Extensions)
	form := model.FormModel{
		OperationID: op.OperationID,
		Endpoint:    path,
		Method:      method,
		Title:       strings.TrimSpace(op.Summary),
		Description: strings.TrimSpace(op.Description),
		SubmitLabel: stringValue(opExt["submitLabel"]),
	}
	if form.SubmitLabel == "" {
		form.SubmitLabel = "Submit"
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		form.Fields = append(form.Fields, buildField(name, ref.Value, isRequired, cfg))
	}

	sort.SliceStable(form.Fields, func(i, j int) bool {
		if form.Fields[i].Order != form.Fields[j].Order {
			return form.Fields[i].Order < form.Fields[j].Order
		}
		return form.Fields[i].Name < form.Fields[j].Name
	})

	return form, nil
}

var (
	defaultFormOnce sync.Once
	defaultForm     model.FormModel
	defaultFormErr  error
)

// DefaultForm loads the embedded document once and returns its form model.
func DefaultForm() (model.FormModel, error) {
	defaultFormOnce.Do(func() {
		doc, err := LoadDocument(context.Background(), embeddedDocument)
		if err != nil {
			defaultFormErr = err
			return
		}
		defaultForm, defaultFormErr = BuildForm(doc, DefaultOperationID)
	})
	if defaultFormErr != nil {
		return model.FormModel{}, defaultFormErr
	}
	return cloneForm(defaultForm), nil
}

// MustDefaultForm panics when the embedded document cannot be built.
func MustDefaultForm() model.FormModel {
	form, err := DefaultForm()
	if err != nil {
		panic(err)
	}
	return form
}

func findOperation(doc *openapi3.T, operationID string) (string, string, *openapi3.Operation) {
	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return path, strings.ToUpper(method), op
			}
		}
	}
	return "", "", nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func buildField(name string, schema *openapi3.Schema, required bool, cfg options) model.Field {
	ext := namespaceExtension(schema.Extensions)

	field := model.Field{
		Name:        name,
		Type:        model.FieldTypeString,
		Format:      schema.Format,
		Required:    required,
		Label:       strings.TrimSpace(schema.Title),
		Placeholder: stringValue(ext["placeholder"]),
		Description: strings.TrimSpace(schema.Description),
		Multiline:   boolValue(ext["multiline"]),
		Order:       intValue(ext["order"]),
	}
	if label := stringValue(ext["label"]); label != "" {
		field.Label = label
	}
	if field.Label == "" {
		field.Label = cfg.labeler(name)
	}

	if required {
		field.Validations = append(field.Validations, model.ValidationRule{Kind: model.ValidationRuleRequired})
	}
	if schema.MinLength > 0 {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)},
		})
	}
	if schema.Format != "" {
		field.Validations = append(field.Validations, model.ValidationRule{
			Kind:   model.ValidationRuleFormat,
			Params: map[string]string{"format": schema.Format},
		})
	}
	return field
}

func namespaceExtension(ext map[string]any) map[string]any {
	raw, ok := ext[extensionNamespace]
	if !ok || raw == nil {
		return nil
	}
	switch typed := raw.(type) {
	case map[string]any:
		return typed
	case json.RawMessage:
		var out map[string]any
		if err := json.Unmarshal(typed, &out); err != nil {
			return nil
		}
		return out
	default:
		return nil
	}
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(typed))
	}
}

func boolValue(v any) bool {
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		parsed, _ := strconv.ParseBool(strings.TrimSpace(typed))
		return parsed
	default:
		return false
	}
}

func intValue(v any) int {
	switch typed := v.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case uint64:
		return int(typed)
	case float64:
		return int(typed)
	case json.Number:
		n, _ := typed.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(typed))
		return n
	default:
		return 0
	}
}

func cloneForm(src model.FormModel) model.FormModel {
	out := src
	if len(src.Fields) > 0 {
		out.Fields = make([]model.Field, len(src.Fields))
		for i, field := range src.Fields {
			clone := field
			if len(field.Validations) > 0 {
				clone.Validations = make([]model.ValidationRule, len(field.Validations))
				for j, rule := range field.Validations {
					clone.Validations[j] = model.ValidationRule{Kind: rule.Kind, Params: cloneStrings(rule.Params)}
				}
			}
			clone.Metadata = cloneStrings(field.Metadata)
			out.Fields[i] = clone
		}
	}
	out.Metadata = cloneStrings(src.Metadata)
	return out
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
