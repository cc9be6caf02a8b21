// Package validation holds the contact form rules. Rules are declared as
// go-playground/validator struct tags and every failure is translated into the
// fixed, user-facing message for its field. Validation failures are values
// (Issue), never Go errors.
package validation
