// Package openapi loads the contact form definition from an OpenAPI document
// using kin-openapi and turns the request body of the submit operation into a
// model.FormModel. The default document is embedded; callers can supply their
// own as long as it describes the same four string properties.
package openapi
