package validation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidate_AllEmptyYieldsThreeIssues(t *testing.T) {
	result := Validate(Input{})
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	want := []Issue{
		{Field: FieldFirstName, Message: MessageFirstName},
		{Field: FieldLastName, Message: MessageLastName},
		{Field: FieldEmail, Message: MessageEmail},
	}
	if diff := cmp.Diff(want, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Rules(t *testing.T) {
	valid := Input{FirstName: "firstname", LastName: "lastname", Email: "taylor@gmail.com"}

	cases := []struct {
		name   string
		mutate func(*Input)
		want   []string
	}{
		{name: "valid", mutate: func(*Input) {}},
		{name: "valid with message", mutate: func(in *Input) { in.Message = "this is a message" }},
		{name: "short first name", mutate: func(in *Input) { in.FirstName = "err" }, want: []string{FieldFirstName}},
		{name: "four characters", mutate: func(in *Input) { in.FirstName = "abcd" }, want: []string{FieldFirstName}},
		{name: "exactly five", mutate: func(in *Input) { in.FirstName = "12345" }},
		{name: "five multibyte runes", mutate: func(in *Input) { in.FirstName = "ÉÉÉÉÉ" }},
		{name: "missing last name", mutate: func(in *Input) { in.LastName = "" }, want: []string{FieldLastName}},
		{name: "incomplete email", mutate: func(in *Input) { in.Email = "taylor@" }, want: []string{FieldEmail}},
		{name: "email without at", mutate: func(in *Input) { in.Email = "taylor" }, want: []string{FieldEmail}},
		{name: "missing email", mutate: func(in *Input) { in.Email = "" }, want: []string{FieldEmail}},
		{name: "everything but message broken", mutate: func(in *Input) {
			*in = Input{FirstName: "a", Email: "b@", Message: "hello"}
		}, want: []string{FieldFirstName, FieldLastName, FieldEmail}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			result := Validate(in)

			var got []string
			for _, issue := range result.Issues {
				got = append(got, issue.Field)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("failing fields mismatch (-want +got):\n%s", diff)
			}
			if result.Valid != (len(tc.want) == 0) {
				t.Fatalf("valid=%v with issues %v", result.Valid, got)
			}
		})
	}
}

func TestResult_Helpers(t *testing.T) {
	result := Validate(Input{FirstName: "abc", Email: "x@"})

	if !result.Has(FieldLastName) || result.Has(FieldMessage) {
		t.Fatalf("unexpected Has results for %#v", result.Issues)
	}

	filtered := result.Filter(func(field string) bool { return field == FieldEmail })
	if diff := cmp.Diff([]Issue{{Field: FieldEmail, Message: MessageEmail}}, filtered.Issues); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if filtered.Valid {
		t.Fatalf("filtered result with issues must be invalid")
	}
	if none := result.Filter(func(string) bool { return false }); !none.Valid || none.Map() != nil {
		t.Fatalf("expected empty filter to be valid, got %#v", none)
	}

	want := map[string]string{
		FieldFirstName: MessageFirstName,
		FieldLastName:  MessageLastName,
		FieldEmail:     MessageEmail,
	}
	if diff := cmp.Diff(want, result.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageFor(t *testing.T) {
	if MessageFor(FieldMessage) != "" || HasRule(FieldMessage) {
		t.Fatalf("message field must not carry a rule")
	}
	if MessageFor(FieldEmail) != MessageEmail {
		t.Fatalf("unexpected email message")
	}
	if diff := cmp.Diff([]string{FieldFirstName, FieldLastName, FieldEmail, FieldMessage}, FieldOrder()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FirstNameMinLengthBoundary(t *testing.T) {
	base := Input{LastName: "lastname", Email: "taylor@gmail.com"}

	short := base
	short.FirstName = strings.Repeat("é", FirstNameMinLength-1)
	if got := Validate(short); !got.Has(FieldFirstName) {
		t.Fatalf("expected %d runes to fail, got %#v", FirstNameMinLength-1, got)
	}

	exact := base
	exact.FirstName = strings.Repeat("é", FirstNameMinLength)
	if got := Validate(exact); !got.Valid {
		t.Fatalf("expected %d runes to pass, got %#v", FirstNameMinLength, got)
	}
}
