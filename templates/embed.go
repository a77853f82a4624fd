// Package templates holds the HTML templates, embedded into the binary.
package templates

import "embed"

//go:embed *.html partials/*.html
var FS embed.FS
