// Package openapi builds the form field table from an OpenAPI 3 document
// describing the submission endpoint. The request body schema supplies the
// field names, labels (title), constraints (pattern, maxLength, required)
// and presentation hints under the `x-formgen-*` extension keys:
//
//	x-formgen-order       ordered list of property names (request schema)
//	x-formgen-input-type  HTML input type override ("tel")
//	x-formgen-inputmode   HTML inputmode attribute ("numeric")
//	x-formgen-keyfilter   keystroke filter applied in the browser ("digits")
//	x-formgen-transform   storage transform applied by the binder ("pin")
//
// Parsing is delegated to internal/openapi/parser so kin-openapi stays out of
// the public surface.
package openapi
