// Package web holds the embedded browser UI shell served at the root path.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
