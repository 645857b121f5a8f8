// Package ui embeds the built dashboard frontend. Run the frontend build
// before compiling so dist/ holds the production bundle.
package ui

import "embed"

//go:embed dist
var DistFS embed.FS
