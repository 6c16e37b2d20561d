// ABOUTME: Tests for the demo UI handlers
// ABOUTME: Drives each form through httptest with a stub job finder and real tool handlers

package webdemo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/idea"
	"github.com/Prahants/mcp-startup-generator/internal/jobs"
	"github.com/Prahants/mcp-startup-generator/internal/tools"
)

const testToken = "demo-test-token"

type stubFinder struct {
	out  string
	err  error
	last jobs.Request
}

func (s *stubFinder) Find(_ context.Context, req jobs.Request) (string, error) {
	s.last = req
	return s.out, s.err
}

func newTestDemo(t *testing.T, finder *stubFinder) (*Demo, *http.ServeMux) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	set, err := tools.NewSet(tools.Deps{Phone: "919876543210", Jobs: finder, Logger: logger})
	require.NoError(t, err)

	d, err := New(Config{
		Tools:    set,
		Verifier: auth.NewStaticVerifier(testToken),
		Title:    "Demo Title",
		Version:  "v-test",
		Logger:   logger,
	})
	require.NoError(t, err)
	mux := http.NewServeMux()
	d.RegisterRoutes(mux)
	return d, mux
}

func postForm(mux http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Demo Title</title>")
	assert.Contains(t, body, "v-test")
	assert.Contains(t, body, "<h2>How this works</h2>")
	for _, name := range []string{"validate", "startup_idea_generator", "job_finder", "make_img_black_and_white"} {
		assert.Contains(t, body, "<code>"+name+"</code>")
	}
	assert.NotContains(t, body, `id="result"`)
	assert.Contains(t, body, `action="/demo/login"`)
	assert.NotContains(t, body, `action="/demo/validate"`)
}

func TestNew_RequiresVerifier(t *testing.T) {
	set, err := tools.NewSet(tools.Deps{Phone: "1", Jobs: &stubFinder{}})
	require.NoError(t, err)

	_, err = New(Config{Tools: set})
	assert.ErrorContains(t, err, "token verifier is required")

	_, err = New(Config{Verifier: auth.NewStaticVerifier(testToken)})
	assert.ErrorContains(t, err, "tool set is required")
}

func TestToolRoutes_RejectAnonymous(t *testing.T) {
	finder := &stubFinder{out: "should not run"}
	_, mux := newTestDemo(t, finder)

	for _, path := range []string{"/demo/validate", "/demo/idea", "/demo/jobs", "/demo/bw"} {
		t.Run(path, func(t *testing.T) {
			form := url.Values{"concept": {"tea"}, "user_goal": {"read"}, "job_url": {"http://10.0.0.1/"}}
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotContains(t, rec.Body.String(), "919876543210")
		})
	}
	assert.Equal(t, jobs.Request{}, finder.last, "job finder ran for an anonymous caller")

	req := httptest.NewRequest(http.MethodPost, "/demo/validate", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "forged"})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_CookieAuthorizesToolCalls(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	req := httptest.NewRequest(http.MethodPost, "/demo/login", strings.NewReader(url.Values{"token": {testToken}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, tokenCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `action="/demo/validate"`)
	assert.Contains(t, rec.Body.String(), `action="/demo/logout"`)

	req = httptest.NewRequest(http.MethodPost, "/demo/validate", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<p>919876543210</p>")
}

func TestLogin_BadToken(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	req := httptest.NewRequest(http.MethodPost, "/demo/login", strings.NewReader(url.Values{"token": {"guess"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), "sign in failed")
}

func TestLogout_ClearsCookie(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/demo/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookie, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestDemoRedirect(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestToolsList(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/tools", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Smart job tool: analyze descriptions, fetch URLs, or search jobs based on free text.")
	assert.Contains(t, body, "Side effects: Returns insights, fetched job descriptions, or relevant job links.")
	assert.NotContains(t, body, "<html")
}

func TestValidate(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := postForm(mux, "/demo/validate", url.Values{})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<p>919876543210</p>")
}

func TestIdea(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := postForm(mux, "/demo/idea", url.Values{"concept": {"fitness"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>STARTUP IDEA: FITNESSFLOW</strong>")
	assert.Contains(t, body, `value="fitness"`)
	assert.Contains(t, body, fmt.Sprintf("<td>name</td><td>6 of %d</td>", idea.TableLen(idea.TableName)))
	assert.Contains(t, body, fmt.Sprintf("<td>problem</td><td>0 of %d</td>", idea.TableLen(idea.TableProblem)))
}

func TestJobs_PassesFormFields(t *testing.T) {
	finder := &stubFinder{out: "**Jobs**\n\n- https://jobs.example/1"}
	_, mux := newTestDemo(t, finder)

	rec := postForm(mux, "/demo/jobs", url.Values{
		"user_goal":       {"find remote go jobs"},
		"job_description": {""},
		"job_url":         {"https://jobs.example/posting"},
		"raw":             {"on"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jobs.Request{
		Goal: "find remote go jobs",
		URL:  "https://jobs.example/posting",
		Raw:  true,
	}, finder.last)

	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Jobs</strong>")
	assert.Contains(t, body, "https://jobs.example/1")
	assert.Contains(t, body, " checked")
}

func TestJobs_InvalidParamsShownAsError(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{err: jobs.ErrInvalidParams})

	rec := postForm(mux, "/demo/jobs", url.Values{"user_goal": {"hello"}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="result error"`)
	assert.Contains(t, body, "job_finder failed")
	assert.Contains(t, body, "Please provide either a job description")
}

func TestJobs_HandlerErrorShownAsError(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{err: errors.New("upstream exploded")})

	rec := postForm(mux, "/demo/jobs", url.Values{"user_goal": {"g"}, "job_url": {"https://x"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "upstream exploded")
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBlackAndWhite(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "red.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/demo/bw", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="data:image/png;base64,`)
}

func TestBlackAndWhite_MissingFile(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	rec := postForm(mux, "/demo/bw", url.Values{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "choose an image to upload")
}

func TestBlackAndWhite_NotAnImage(t *testing.T) {
	_, mux := newTestDemo(t, &stubFinder{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("just text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/demo/bw", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported image type")
}

func TestCall_ArgumentErrors(t *testing.T) {
	d, _ := newTestDemo(t, &stubFinder{})

	res := d.call(context.Background(), tools.NameStartupIdea, map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Message, "invalid arguments")
	assert.Empty(t, res.HTML)

	res = d.call(context.Background(), "nope", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, `tool "nope" not found`, res.Message)
}

func TestRenderMarkdown_OmitsRawHTML(t *testing.T) {
	d, _ := newTestDemo(t, &stubFinder{})

	out := string(d.renderMarkdown("# Title\n\n<script>alert(1)</script>\n"))
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.NotContains(t, out, "<script>")
}
