// ABOUTME: Template data types and rendering for the demo UI
// ABOUTME: Loads templates from the embedded filesystem and renders markdown through goldmark

package webdemo

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/Prahants/mcp-startup-generator/internal/idea"
)

// Template data types
type pageData struct {
	Title    string
	Version  string
	About    template.HTML
	Tools    []toolItem
	Form     formValues
	Result   *resultData
	SignedIn bool
}

type toolItem struct {
	Name        string
	Description string
	UseWhen     string
	SideEffects string
}

// formValues echoes submitted fields back into the forms.
type formValues struct {
	Concept     string
	Goal        string
	Description string
	URL         string
	Raw         bool
}

type resultData struct {
	Tool      string
	IsError   bool
	Message   string
	HTML      template.HTML
	ImageSrc  template.URL
	Selection []selectionRow
}

type selectionRow struct {
	Table idea.Table
	Index int
	Len   int
}

func selectionRows(concept string) []selectionRow {
	sel := idea.Select(concept)
	rows := make([]selectionRow, 0, len(idea.Tables))
	for _, t := range idea.Tables {
		rows = append(rows, selectionRow{Table: t, Index: sel.Index(t), Len: idea.TableLen(t)})
	}
	return rows
}

// renderMarkdown converts tool output to HTML. Raw HTML in the source is
// omitted by goldmark's default renderer.
func (d *Demo) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(src), &buf); err != nil {
		d.logger.Error("failed to convert markdown", "error", err)
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

// renderIndex renders the full demo page
func (d *Demo) renderIndex(w http.ResponseWriter, r *http.Request, status int, form formValues, result *resultData) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html",
		"templates/index.html",
		"templates/partials/result.html",
		"templates/partials/tools.html",
	))

	data := pageData{
		Title:    d.title,
		Version:  d.version,
		About:    d.about,
		Tools:    d.toolItems(),
		Form:     form,
		Result:   result,
		SignedIn: d.signedIn(r),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		d.logger.Error("failed to render demo page", "error", err)
	}
}

// renderTools renders the tools partial on its own
func (d *Demo) renderTools(w http.ResponseWriter) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/partials/tools.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "tools", pageData{Tools: d.toolItems()}); err != nil {
		d.logger.Error("failed to render tools", "error", err)
	}
}
