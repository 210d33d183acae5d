// Package template defines the template engine seam renderers rely on. The
// pongo sub-package provides the pongo2-backed implementation.
package template
