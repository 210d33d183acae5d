// Package openapi compares the local attribute schema with the request body
// the prediction service publishes at /openapi.json.
package openapi
