package openapi

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/validation"
)

func TestDefaultForm_FieldsInOrder(t *testing.T) {
	form, err := DefaultForm()
	if err != nil {
		t.Fatalf("default form: %v", err)
	}

	if form.OperationID != DefaultOperationID {
		t.Fatalf("expected operation %q, got %q", DefaultOperationID, form.OperationID)
	}
	if form.Title != "Contact Form" {
		t.Fatalf("expected title %q, got %q", "Contact Form", form.Title)
	}
	if form.Method != "POST" || form.Endpoint != "/contact" {
		t.Fatalf("unexpected endpoint %s %s", form.Method, form.Endpoint)
	}

	want := []string{"firstName", "lastName", "email", "message"}
	if diff := cmp.Diff(want, form.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	labels := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		labels = append(labels, field.Label)
	}
	if diff := cmp.Diff([]string{"First Name", "Last Name", "Email", "Message"}, labels); diff != "" {
		t.Fatalf("label mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultForm_Constraints(t *testing.T) {
	form := MustDefaultForm()

	first, _ := form.Field("firstName")
	if !first.Required {
		t.Fatalf("expected firstName to be required")
	}
	rule, ok := first.Rule(model.ValidationRuleMinLength)
	if !ok || rule.Params["value"] != "5" {
		t.Fatalf("expected minLength 5, got %#v", first.Validations)
	}

	email, _ := form.Field("email")
	if email.Format != "email" {
		t.Fatalf("expected email format, got %q", email.Format)
	}

	message, _ := form.Field("message")
	if message.Required || !message.Multiline {
		t.Fatalf("expected optional multiline message, got %#v", message)
	}
	if len(message.Validations) != 0 {
		t.Fatalf("expected message to have no rules, got %#v", message.Validations)
	}
}

// The embedded document and the validation rules must describe the same form.
func TestDefaultForm_AgreesWithValidationRules(t *testing.T) {
	form := MustDefaultForm()

	if diff := cmp.Diff(validation.FieldOrder(), form.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-rules +document):\n%s", diff)
	}

	var ruled, required []string
	for _, field := range form.Fields {
		if validation.HasRule(field.Name) {
			ruled = append(ruled, field.Name)
		}
		if _, ok := field.Rule(model.ValidationRuleRequired); ok {
			required = append(required, field.Name)
		}
	}
	if diff := cmp.Diff(ruled, required); diff != "" {
		t.Fatalf("required set mismatch (-rules +document):\n%s", diff)
	}

	first, _ := form.Field(validation.FieldFirstName)
	rule, ok := first.Rule(model.ValidationRuleMinLength)
	if !ok {
		t.Fatalf("expected a minLength rule on firstName")
	}
	if got, _ := strconv.Atoi(rule.Params["value"]); got != validation.FirstNameMinLength {
		t.Fatalf("document minLength %d, rules minLength %d", got, validation.FirstNameMinLength)
	}

	email, _ := form.Field(validation.FieldEmail)
	if rule, ok := email.Rule(model.ValidationRuleFormat); !ok || rule.Params["format"] != "email" {
		t.Fatalf("expected email format rule, got %#v", email.Validations)
	}
}

func TestDefaultForm_ReturnsIndependentCopies(t *testing.T) {
	a := MustDefaultForm()
	a.Fields[0].Label = "changed"
	a.Fields[0].Validations[0].Kind = "changed"

	b := MustDefaultForm()
	if b.Fields[0].Label == "changed" || b.Fields[0].Validations[0].Kind == "changed" {
		t.Fatalf("default form shares state between callers")
	}
}

func TestBuildForm_UnknownOperation(t *testing.T) {
	doc, err := LoadDocument(context.Background(), DefaultDocument())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	_, err = BuildForm(doc, "deleteContact")
	if !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestBuildForm_CustomLabeler(t *testing.T) {
	doc, err := LoadDocument(context.Background(), DefaultDocument())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	form, err := BuildForm(doc, DefaultOperationID, WithLabeler(func(name string) string {
		return "label:" + name
	}))
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	field, _ := form.Field("email")
	if field.Label != "label:email" {
		t.Fatalf("expected custom label, got %q", field.Label)
	}
}

func TestLoadDocument_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := LoadDocument(ctx, nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := LoadDocument(ctx, []byte(`{"openapi":"3.0.3","info":{"title":"x","version":"1"},"paths":{}}`)); !errors.Is(err, errNoPaths) {
		t.Fatalf("expected errNoPaths, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := LoadDocument(cancelled, DefaultDocument()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
