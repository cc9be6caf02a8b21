package contact

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrUnknownField is returned when a field name is not part of the form.
var ErrUnknownField = errors.New("contact: unknown field")

// Values carries the four form fields.
type Values struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Get returns the value stored under a field name.
func (v Values) Get(name string) (string, error) {
	switch name {
	case validation.FieldFirstName:
		return v.FirstName, nil
	case validation.FieldLastName:
		return v.LastName, nil
	case validation.FieldEmail:
		return v.Email, nil
	case validation.FieldMessage:
		return v.Message, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Set stores value under a field name.
func (v *Values) Set(name, value string) error {
	switch name {
	case validation.FieldFirstName:
		v.FirstName = value
	case validation.FieldLastName:
		v.LastName = value
	case validation.FieldEmail:
		v.Email = value
	case validation.FieldMessage:
		v.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Map returns the values keyed by field name. Empty fields are kept.
func (v Values) Map() map[string]string {
	return map[string]string{
		validation.FieldFirstName: v.FirstName,
		validation.FieldLastName:  v.LastName,
		validation.FieldEmail:     v.Email,
		validation.FieldMessage:   v.Message,
	}
}

// HasMessage reports whether the optional message was filled in.
func (v Values) HasMessage() bool {
	return v.Message != ""
}

// ValuesFromForm reads the known fields out of a decoded form post. Unknown
// keys are ignored.
func ValuesFromForm(form url.Values) Values {
	return Values{
		FirstName: form.Get(validation.FieldFirstName),
		LastName:  form.Get(validation.FieldLastName),
		Email:     form.Get(validation.FieldEmail),
		Message:   form.Get(validation.FieldMessage),
	}
}

func (v Values) input() validation.Input {
	return validation.Input{
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Email:     v.Email,
		Message:   v.Message,
	}
}

// Validate runs every rule against v.
func (v Values) Validate() validation.Result {
	return validation.Validate(v.input())
}
