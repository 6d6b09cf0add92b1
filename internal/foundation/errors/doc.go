// Package errors provides the classified error primitives used across sassdoc-theme.
//
// Every failure that crosses a package boundary is described by a category
// (config, theme, template, markdown, filesystem, ...), a severity and a retry
// hint. Adapters translate classified errors into CLI exit codes and HTTP
// status codes for the preview server.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryTemplate, "render failed").
//		WithContext("template", "views/index.html.tmpl").
//		Build()
package errors
