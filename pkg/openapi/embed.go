package openapi

import (
	_ "embed"
)

// DefaultOperationID names the submit operation in the embedded document.
const DefaultOperationID = "submitContact"

//go:embed contact.openapi.yaml
var embeddedDocument []byte

// DefaultDocument returns a copy of the embedded contact form document.
func DefaultDocument() []byte {
	out := make([]byte, len(embeddedDocument))
	copy(out, embeddedDocument)
	return out
}
