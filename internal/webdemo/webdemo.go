// ABOUTME: Browser demo that drives the tool set in-process for manual testing
// ABOUTME: One form per tool; markdown results rendered to HTML, images shown inline

package webdemo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/tools"
)

const (
	// maxUploadBytes bounds the image upload form.
	maxUploadBytes = 10 << 20

	callTimeout = 60 * time.Second

	// tokenCookie carries the bearer token entered on the sign-in form.
	tokenCookie = "startup_demo_token"
)

// Config holds configuration for the demo.
type Config struct {
	Tools    *tools.Set
	Verifier auth.TokenVerifier
	Title   string
	Version string
	Logger  *slog.Logger
}

// Demo serves the demo UI.
type Demo struct {
	tools    *tools.Set
	verifier auth.TokenVerifier
	title   string
	version string
	about   template.HTML
	md      goldmark.Markdown
	logger  *slog.Logger
}

// New creates a demo for the given tool set. Tool calls require a token the
// verifier accepts.
func New(cfg Config) (*Demo, error) {
	if cfg.Tools == nil {
		return nil, fmt.Errorf("webdemo: tool set is required")
	}
	if cfg.Verifier == nil {
		return nil, fmt.Errorf("webdemo: token verifier is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Title == "" {
		cfg.Title = "startup-mcp demo"
	}

	d := &Demo{
		tools:    cfg.Tools,
		verifier: cfg.Verifier,
		title:   cfg.Title,
		version: cfg.Version,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:  logger.With("component", "webdemo"),
	}

	about, err := docsFS.ReadFile("docs/about.md")
	if err != nil {
		d.logger.Error("failed to read about page", "error", err)
		about = []byte("Demo for the MCP tools.")
	}
	d.about = d.renderMarkdown(string(about))

	return d, nil
}

// RegisterRoutes registers the demo routes on the given mux
func (d *Demo) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", d.handleIndex)
	mux.Handle("GET /demo/{$}", http.RedirectHandler("/", http.StatusSeeOther))
	mux.HandleFunc("GET /demo/tools", d.handleToolsList)

	mux.HandleFunc("POST /demo/login", d.handleLogin)
	mux.HandleFunc("POST /demo/logout", d.handleLogout)

	mux.Handle("POST /demo/validate", d.protect(d.handleValidate))
	mux.Handle("POST /demo/idea", d.protect(d.handleIdea))
	mux.Handle("POST /demo/jobs", d.protect(d.handleJobs))
	mux.Handle("POST /demo/bw", d.protect(d.handleBlackAndWhite))

	d.logger.Info("demo routes registered")
}

// protect runs next only for callers the verifier accepts. A browser has no
// way to set the Authorization header on a form post, so the sign-in cookie
// stands in for it when the header is absent.
func (d *Demo) protect(next http.HandlerFunc) http.Handler {
	authed := auth.HTTPAuthMiddleware(d.verifier, d.logger)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+c.Value)
			}
		}
		authed.ServeHTTP(w, r)
	})
}

// signedIn reports whether the request carries a valid sign-in cookie.
func (d *Demo) signedIn(r *http.Request) bool {
	c, err := r.Cookie(tokenCookie)
	if err != nil || c.Value == "" {
		return false
	}
	_, err = d.verifier.Verify(c.Value)
	return err == nil
}

func (d *Demo) handleLogin(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.FormValue("token"))
	if _, err := d.verifier.Verify(token); token == "" || err != nil {
		d.logger.Warn("demo sign-in rejected", "remote", r.RemoteAddr)
		d.renderIndex(w, r, http.StatusUnauthorized, formValues{}, &resultData{
			Tool:    "sign in",
			IsError: true,
			Message: "invalid token",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *Demo) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (d *Demo) handleIndex(w http.ResponseWriter, r *http.Request) {
	d.renderIndex(w, r, http.StatusOK, formValues{}, nil)
}

func (d *Demo) handleToolsList(w http.ResponseWriter, r *http.Request) {
	d.renderTools(w)
}

func (d *Demo) handleValidate(w http.ResponseWriter, r *http.Request) {
	res := d.call(r.Context(), tools.NameValidate, map[string]any{})
	d.renderIndex(w, r, http.StatusOK, formValues{}, res)
}

func (d *Demo) handleIdea(w http.ResponseWriter, r *http.Request) {
	concept := r.FormValue("concept")
	form := formValues{Concept: concept}

	res := d.call(r.Context(), tools.NameStartupIdea, map[string]any{"concept": concept})
	if !res.IsError {
		res.Selection = selectionRows(concept)
	}
	d.renderIndex(w, r, http.StatusOK, form, res)
}

func (d *Demo) handleJobs(w http.ResponseWriter, r *http.Request) {
	form := formValues{
		Goal:        r.FormValue("user_goal"),
		Description: r.FormValue("job_description"),
		URL:         r.FormValue("job_url"),
		Raw:         r.FormValue("raw") != "",
	}

	args := map[string]any{"user_goal": form.Goal, "raw": form.Raw}
	if form.Description != "" {
		args["job_description"] = form.Description
	}
	if form.URL != "" {
		args["job_url"] = form.URL
	}

	res := d.call(r.Context(), tools.NameJobFinder, args)
	d.renderIndex(w, r, http.StatusOK, form, res)
}

func (d *Demo) handleBlackAndWhite(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		msg := "choose an image to upload"
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			msg = "image is larger than 10 MB"
		}
		d.renderIndex(w, r, http.StatusBadRequest, formValues{}, &resultData{
			Tool:    tools.NameBlackAndWhite,
			IsError: true,
			Message: msg,
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		d.logger.Warn("failed to read upload", "error", err)
		d.renderIndex(w, r, http.StatusBadRequest, formValues{}, &resultData{
			Tool:    tools.NameBlackAndWhite,
			IsError: true,
			Message: "failed to read upload",
		})
		return
	}

	res := d.call(r.Context(), tools.NameBlackAndWhite, map[string]any{
		"puch_image_data": base64.StdEncoding.EncodeToString(data),
	})
	d.renderIndex(w, r, http.StatusOK, formValues{}, res)
}

// call runs a tool and converts its result for display. Handler errors are
// shown the same way as error results.
func (d *Demo) call(ctx context.Context, name string, args map[string]any) *resultData {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out := &resultData{Tool: name}

	res, err := d.tools.Call(ctx, name, args)
	if err != nil {
		out.IsError = true
		out.Message = err.Error()
		return out
	}

	var text strings.Builder
	for _, part := range res.Content {
		switch v := part.(type) {
		case mcp.TextContent:
			text.WriteString(v.Text)
		case *mcp.TextContent:
			text.WriteString(v.Text)
		case mcp.ImageContent:
			out.ImageSrc = imageSrc(v.MIMEType, v.Data)
		case *mcp.ImageContent:
			out.ImageSrc = imageSrc(v.MIMEType, v.Data)
		}
	}

	out.IsError = res.IsError
	if res.IsError {
		out.Message = text.String()
	} else if text.Len() > 0 {
		out.HTML = d.renderMarkdown(text.String())
	}
	return out
}

// imageSrc builds a data URI. The payload is base64 produced by the image tool.
func imageSrc(mimeType, data string) template.URL {
	return template.URL("data:" + mimeType + ";base64," + data)
}

func (d *Demo) toolItems() []toolItem {
	var items []toolItem
	for _, t := range d.tools.Tools() {
		desc := t.Describe()
		item := toolItem{
			Name:        t.Name(),
			Description: desc.Description,
			UseWhen:     desc.UseWhen,
		}
		if desc.SideEffects != nil {
			item.SideEffects = *desc.SideEffects
		}
		items = append(items, item)
	}
	return items
}
