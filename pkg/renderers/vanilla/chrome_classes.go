package vanilla

// ChromeClass is a typed identifier for the semantic CSS classes the
// templates emit.
type ChromeClass string

const (
	ClassForm    ChromeClass = "contactform"
	ClassHeader  ChromeClass = "contactform-header"
	ClassField   ChromeClass = "contactform-field"
	ClassError   ChromeClass = "contactform-error"
	ClassActions ChromeClass = "contactform-actions"
	ClassResults ChromeClass = "contactform-results"
)

// Test ids emitted for behavioural lookups.
const (
	TestIDError = "error"
)

// DisplayTestID returns the test id of the results entry for a field
// ("firstName" -> "firstnameDisplay").
func DisplayTestID(field string) string {
	return lower(field) + "Display"
}
