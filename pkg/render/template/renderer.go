package template

import "io"

// TemplateRenderer executes named templates or inline template strings with
// the supplied data, optionally copying the output to writers.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
