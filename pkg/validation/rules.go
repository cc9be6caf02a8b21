package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear in payloads, form posts, and error maps.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldMessage   = "message"
)

// Messages shown next to a failing field.
const (
	MessageFirstName = "firstname must have at least 5 characters"
	MessageLastName  = "lastName is a required field"
	MessageEmail     = "email must be a valid email address"
)

// FirstNameMinLength is the minimum number of characters in a first name.
const FirstNameMinLength = 5

// Input is the value set the rules run against.
type Input struct {
	FirstName string `json:"firstName" validate:"min=5"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Message   string `json:"message"`
}

// Issue is a single failing rule.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result captures the outcome of a validation pass. Issues follow field order.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

var fieldOrder = []string{FieldFirstName, FieldLastName, FieldEmail, FieldMessage}

var messages = map[string]string{
	FieldFirstName: MessageFirstName,
	FieldLastName:  MessageLastName,
	FieldEmail:     MessageEmail,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		validate = v
	})
	return validate
}

// FieldOrder lists every field name in display order.
func FieldOrder() []string {
	return append([]string(nil), fieldOrder...)
}

// MessageFor returns the message shown when name fails its rule. Fields
// without a rule return "".
func MessageFor(name string) string {
	return messages[name]
}

// HasRule reports whether the field carries a rule.
func HasRule(name string) bool {
	_, ok := messages[name]
	return ok
}

// Validate runs every rule against in.
func Validate(in Input) Result {
	failing := map[string]struct{}{}

	err := engine().Struct(in)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// Only InvalidValidationError lands here, which a struct value
			// cannot produce.
			panic(err)
		}
		for _, fe := range verrs {
			failing[fe.Field()] = struct{}{}
		}
	}

	result := Result{Valid: len(failing) == 0}
	for _, name := range fieldOrder {
		if _, ok := failing[name]; ok {
			result.Issues = append(result.Issues, Issue{Field: name, Message: messages[name]})
		}
	}
	return result
}

// Map flattens the result into field -> message.
func (r Result) Map() map[string]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = issue.Message
	}
	return out
}

// Has reports whether field is failing.
func (r Result) Has(field string) bool {
	for _, issue := range r.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// Filter keeps the issues whose field passes keep, preserving order.
func (r Result) Filter(keep func(field string) bool) Result {
	out := Result{}
	for _, issue := range r.Issues {
		if keep(issue.Field) {
			out.Issues = append(out.Issues, issue)
		}
	}
	out.Valid = len(out.Issues) == 0
	return out
}
