// Package contact implements the contact form state: the four field values,
// which fields have been validated, and the values captured by the last
// successful submit.
//
// A field is validated once it is changed or blurred; submitting validates
// every field. Errors are always recomputed from the current values, so the
// visible error set never goes stale.
package contact
