package contact

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/validation"
)

func typeInto(t *testing.T, s *State, field, value string) {
	t.Helper()
	if err := s.Change(field, value); err != nil {
		t.Fatalf("change %s: %v", field, err)
	}
}

func failingFields(result validation.Result) []string {
	var out []string
	for _, issue := range result.Issues {
		out = append(out, issue.Field)
	}
	return out
}

func TestState_NewFormHasNoErrors(t *testing.T) {
	s := NewState()
	if got := s.Errors(); !got.Valid || len(got.Issues) != 0 {
		t.Fatalf("expected no errors on mount, got %#v", got)
	}
	if s.Status() != StatusUnsubmitted {
		t.Fatalf("expected unsubmitted, got %s", s.Status())
	}
	if _, ok := s.Submitted(); ok {
		t.Fatalf("expected no submitted values before submit")
	}
}

func TestState_ShortFirstNameYieldsOneError(t *testing.T) {
	s := NewState()
	typeInto(t, s, validation.FieldFirstName, "err")

	errs := s.Errors()
	if diff := cmp.Diff([]validation.Issue{{Field: validation.FieldFirstName, Message: validation.MessageFirstName}}, errs.Issues); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestState_SubmitEmptyYieldsThreeErrors(t *testing.T) {
	s := NewState()
	result := s.Submit()

	if len(result.Issues) != 3 || len(s.Errors().Issues) != 3 {
		t.Fatalf("expected 3 errors, got %#v", result.Issues)
	}
	if s.Status() != StatusUnsubmitted {
		t.Fatalf("failed submit must not change status")
	}
}

func TestState_MissingEmailYieldsOneError(t *testing.T) {
	s := NewState()
	typeInto(t, s, validation.FieldFirstName, "12345")
	typeInto(t, s, validation.FieldLastName, "all")
	s.Submit()

	if diff := cmp.Diff([]string{validation.FieldEmail}, failingFields(s.Errors())); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestState_InvalidEmailMessage(t *testing.T) {
	s := NewState()
	typeInto(t, s, validation.FieldEmail, "taylor@")

	errs := s.Errors()
	if len(errs.Issues) != 1 || errs.Issues[0].Message != validation.MessageEmail {
		t.Fatalf("expected email error, got %#v", errs.Issues)
	}
}

func TestState_MissingLastNameMessage(t *testing.T) {
	s := NewState()
	typeInto(t, s, validation.FieldFirstName, "12345")
	typeInto(t, s, validation.FieldEmail, "taylor@gmail.com")
	s.Submit()

	errs := s.Errors()
	if len(errs.Issues) != 1 || errs.Issues[0].Message != validation.MessageLastName {
		t.Fatalf("expected lastName error only, got %#v", errs.Issues)
	}
}

func TestState_SubmitCapturesValues(t *testing.T) {
	cases := []struct {
		name    string
		message string
	}{
		{name: "without message"},
		{name: "with message", message: "this is a message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			typeInto(t, s, validation.FieldFirstName, "firstname")
			typeInto(t, s, validation.FieldLastName, "lastname")
			typeInto(t, s, validation.FieldEmail, "taylor@gmail.com")
			if tc.message != "" {
				typeInto(t, s, validation.FieldMessage, tc.message)
			}

			if result := s.Submit(); !result.Valid {
				t.Fatalf("expected submit to pass, got %#v", result.Issues)
			}
			got, ok := s.Submitted()
			if !ok {
				t.Fatalf("expected submitted values")
			}
			want := Values{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com", Message: tc.message}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
			}
			if got.HasMessage() != (tc.message != "") {
				t.Fatalf("HasMessage mismatch for %q", tc.message)
			}
			if s.Status() != StatusSubmitted {
				t.Fatalf("expected submitted status")
			}
		})
	}
}

func TestState_EditAfterSubmit(t *testing.T) {
	s := NewState()
	s.SubmitValues(Values{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com"})

	typeInto(t, s, validation.FieldFirstName, "abc")
	if diff := cmp.Diff([]string{validation.FieldFirstName}, failingFields(s.Errors())); diff != "" {
		t.Fatalf("errors mismatch after edit (-want +got):\n%s", diff)
	}

	if result := s.Submit(); result.Valid {
		t.Fatalf("expected failing resubmit")
	}
	prev, ok := s.Submitted()
	if !ok || prev.FirstName != "firstname" {
		t.Fatalf("failing resubmit must keep earlier submission, got %#v", prev)
	}

	typeInto(t, s, validation.FieldFirstName, "another")
	s.Submit()
	latest, _ := s.Submitted()
	if latest.FirstName != "another" {
		t.Fatalf("expected latest submission to replace earlier one, got %#v", latest)
	}
	if s.Attempts() != 3 {
		t.Fatalf("expected 3 attempts, got %d", s.Attempts())
	}
}

func TestState_ErrorsNeverStale(t *testing.T) {
	s := NewState()
	typeInto(t, s, validation.FieldEmail, "taylor@")
	if len(s.Errors().Issues) != 1 {
		t.Fatalf("expected email error")
	}
	typeInto(t, s, validation.FieldEmail, "taylor@gmail.com")
	if len(s.Errors().Issues) != 0 {
		t.Fatalf("expected error to clear once the value is fixed, got %#v", s.Errors().Issues)
	}
}

func TestState_BlurValidatesUntouchedField(t *testing.T) {
	s := NewState()
	if err := s.Blur(validation.FieldLastName); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if diff := cmp.Diff([]string{validation.FieldLastName}, failingFields(s.Errors())); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if err := s.Blur(validation.FieldMessage); err != nil {
		t.Fatalf("blur message: %v", err)
	}
	if len(s.Errors().Issues) != 1 {
		t.Fatalf("message must never produce an error")
	}
}

func TestState_UnknownField(t *testing.T) {
	s := NewState()
	if err := s.Change("phone", "555"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := s.Blur("phone"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestState_ZeroValueUsable(t *testing.T) {
	var s State
	if err := s.Change(validation.FieldFirstName, "err"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if len(s.Errors().Issues) != 1 {
		t.Fatalf("expected one error on zero-value state")
	}
}

func TestSubmit_Stateless(t *testing.T) {
	_, err := Submit(Values{FirstName: "firstname", Email: "taylor@gmail.com"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if diff := cmp.Diff(map[string]string{validation.FieldLastName: validation.MessageLastName}, verr.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	values := Values{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com"}
	got, err := Submit(values)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got != values {
		t.Fatalf("expected values echoed, got %#v", got)
	}
}

func TestValuesFromForm(t *testing.T) {
	form := url.Values{
		"firstName": {"firstname"},
		"lastName":  {"lastname"},
		"email":     {"taylor@gmail.com"},
		"message":   {"this is a message"},
		"extra":     {"ignored"},
	}
	want := Values{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com", Message: "this is a message"}
	if diff := cmp.Diff(want, ValuesFromForm(form)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{
		"firstName": "firstname",
		"lastName":  "lastname",
		"email":     "taylor@gmail.com",
		"message":   "this is a message",
	}, want.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestState_SubmitWith(t *testing.T) {
	s := NewState()
	valid := Values{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com"}

	var accepted []Values
	result, err := s.SubmitWith(valid, func(v Values) error {
		accepted = append(accepted, v)
		return nil
	})
	if err != nil || !result.Valid {
		t.Fatalf("expected accepted submit, got %#v %v", result, err)
	}
	if diff := cmp.Diff([]Values{valid}, accepted); diff != "" {
		t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
	}

	// Invalid values never reach accept.
	result, err = s.SubmitWith(Values{FirstName: "abc"}, func(Values) error {
		t.Fatalf("accept called for invalid values")
		return nil
	})
	if err != nil || result.Valid {
		t.Fatalf("expected rejected submit, got %#v %v", result, err)
	}

	// A rejecting accept keeps the earlier submission.
	second := valid
	second.Message = "second"
	boom := errors.New("mailer down")
	if _, err := s.SubmitWith(second, func(Values) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected accept error, got %v", err)
	}
	got, ok := s.Submitted()
	if !ok || got != valid {
		t.Fatalf("expected first submission to be kept, got %#v", got)
	}
	if s.Attempts() != 3 {
		t.Fatalf("expected 3 attempts, got %d", s.Attempts())
	}
}
