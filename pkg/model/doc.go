// Package model defines the typed contact form model consumed by renderers.
// The model is built from the embedded OpenAPI document (see pkg/openapi) and
// carries labels, ordering, and the constraints each field declares, so the
// HTML and terminal renderers agree on what the form looks like.
package model
