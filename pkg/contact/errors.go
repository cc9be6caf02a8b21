package contact

import (
	"errors"
	"strings"

	"github.com/goliatone/go-contactform/pkg/validation"
)

// ErrValidation marks a rejected submission.
var ErrValidation = errors.New("contact: validation failed")

// ValidationError carries the failing rules of a rejected submission.
type ValidationError struct {
	Result validation.Result
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Result.Issues) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Result.Issues))
	for _, issue := range e.Result.Issues {
		parts = append(parts, issue.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Fields returns field -> message for the failing rules.
func (e *ValidationError) Fields() map[string]string {
	if e == nil {
		return nil
	}
	return e.Result.Map()
}

// Submit validates values without any session state. It returns the values
// unchanged on success and a *ValidationError otherwise.
func Submit(values Values) (Values, error) {
	result := values.Validate()
	if !result.Valid {
		return Values{}, &ValidationError{Result: result}
	}
	return values, nil
}
