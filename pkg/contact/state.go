package contact

import (
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Status is the submission state of a form.
type Status int

const (
	StatusUnsubmitted Status = iota
	StatusSubmitted
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	default:
		return "unsubmitted"
	}
}

// State is the form state of one render session. It is not safe for
// concurrent use; callers sharing a State must serialise access.
type State struct {
	values    Values
	validated map[string]bool
	submitted *Values
	attempts  int
}

// NewState returns an empty, unsubmitted form.
func NewState() *State {
	return &State{validated: make(map[string]bool)}
}

// Values returns the current field values.
func (s *State) Values() Values {
	return s.values
}

// Change records a keystroke: the field takes the new value and becomes
// validated.
func (s *State) Change(name, value string) error {
	if err := s.values.Set(name, value); err != nil {
		return err
	}
	s.mark(name)
	return nil
}

// Blur marks a field as validated without changing its value.
func (s *State) Blur(name string) error {
	if _, err := s.values.Get(name); err != nil {
		return err
	}
	s.mark(name)
	return nil
}

// Validated reports whether the field currently contributes errors.
func (s *State) Validated(name string) bool {
	return s.validated[name]
}

// Errors returns the failing rules among validated fields, computed from the
// current values.
func (s *State) Errors() validation.Result {
	return s.values.Validate().Filter(s.Validated)
}

// Submit validates every field. When nothing fails the current values are
// captured and the form moves to StatusSubmitted; otherwise nothing is
// captured and any earlier submission is kept.
func (s *State) Submit() validation.Result {
	result, _ := s.submit(nil)
	return result
}

// SubmitValues replaces every field with values and submits.
func (s *State) SubmitValues(values Values) validation.Result {
	s.values = values
	return s.Submit()
}

// SubmitWith replaces every field with values and submits, handing passing
// values to accept before they are captured. When accept fails nothing is
// captured, any earlier submission is kept, and the error is returned.
func (s *State) SubmitWith(values Values, accept func(Values) error) (validation.Result, error) {
	s.values = values
	return s.submit(accept)
}

func (s *State) submit(accept func(Values) error) (validation.Result, error) {
	s.attempts++
	for _, name := range validation.FieldOrder() {
		s.mark(name)
	}

	result := s.values.Validate()
	if !result.Valid {
		return result, nil
	}
	if accept != nil {
		if err := accept(s.values); err != nil {
			return result, err
		}
	}
	captured := s.values
	s.submitted = &captured
	return result, nil
}

// Submitted returns the values captured by the last successful submit.
func (s *State) Submitted() (Values, bool) {
	if s.submitted == nil {
		return Values{}, false
	}
	return *s.submitted, true
}

// Status reports whether a submit has succeeded.
func (s *State) Status() Status {
	if s.submitted != nil {
		return StatusSubmitted
	}
	return StatusUnsubmitted
}

// Attempts counts submit calls, successful or not.
func (s *State) Attempts() int {
	return s.attempts
}

func (s *State) mark(name string) {
	if s.validated == nil {
		s.validated = make(map[string]bool)
	}
	s.validated[name] = true
}
