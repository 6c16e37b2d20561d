// ABOUTME: Embeds HTML templates and the about page into the binary using go:embed
// ABOUTME: Provides templateFS and docsFS for loading at runtime

package webdemo

import "embed"

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

//go:embed docs/*.md
var docsFS embed.FS
