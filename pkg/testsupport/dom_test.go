package testsupport

import (
	"regexp"
	"testing"
)

const sample = `<section>
  <h1>Contact Form</h1>
  <label for="a">First Name*</label><input id="a" name="firstName">
  <p data-testid="error">Error: <span>bad</span></p>
  <p data-testid="error">Error: worse</p>
  <button type="submit">Submit</button>
  <p data-testid="firstnameDisplay"><b>First Name:</b> <span>firstname</span></p>
</section>`

func TestDocumentQueries(t *testing.T) {
	doc := ParseHTML(t, []byte(sample))

	if got := len(doc.AllByTestID("error")); got != 2 {
		t.Fatalf("expected 2 error nodes, got %d", got)
	}
	if doc.ByTestID("messageDisplay") != nil {
		t.Fatalf("expected no messageDisplay node")
	}

	control := doc.ByLabelText(regexp.MustCompile(`(?i)first name`))
	if control == nil || Attr(control, "name") != "firstName" {
		t.Fatalf("expected label to resolve input, got %#v", control)
	}

	if got := doc.ByText("firstname"); len(got) != 1 || got[0].Data != "span" {
		t.Fatalf("expected span with exact text, got %d nodes", len(got))
	}
	if got := doc.MatchText(regexp.MustCompile(`(?i)contact form`)); len(got) != 1 || got[0].Data != "h1" {
		t.Fatalf("expected innermost h1 match, got %d nodes", len(got))
	}
	if got := len(doc.Buttons()); got != 1 {
		t.Fatalf("expected 1 button, got %d", got)
	}
	if got := TextContent(doc.ByTestID("firstnameDisplay")); got != "First Name: firstname" {
		t.Fatalf("unexpected text content %q", got)
	}
}
