// ABOUTME: Tests for the Gateway orchestrator
// ABOUTME: Covers wiring, health/info endpoints, MCP auth, demo mounting, and Run lifecycle

package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Prahants/mcp-startup-generator/internal/auth"
	"github.com/Prahants/mcp-startup-generator/internal/config"
)

const testToken = "gateway-test-token"

// testConfig creates a minimal valid config listening on a random port.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Auth.Token = testToken
	cfg.Owner.Phone = "919876543210"
	return &cfg
}

// testLogger creates a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(t *testing.T, cfg *config.Config) (*Gateway, *httptest.Server) {
	t.Helper()
	gw, err := New(cfg, testLogger())
	require.NoError(t, err)
	srv := httptest.NewServer(gw.Handler())
	t.Cleanup(srv.Close)
	return gw, srv
}

func get(t *testing.T, url, token string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGatewayNew(t *testing.T) {
	cfg := testConfig(t)

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)

	assert.Same(t, cfg, gw.config)
	assert.NotNil(t, gw.mcpServer)
	assert.NotNil(t, gw.demo, "demo is enabled by default")
	assert.False(t, gw.jwtEnabled)
	assert.True(t, strings.HasPrefix(gw.serverID, "startup-mcp-"))
	assert.Equal(t, []string{"job_finder", "make_img_black_and_white", "startup_idea_generator", "validate"}, gw.Tools().Names())
}

func TestGatewayNew_NilConfig(t *testing.T) {
	_, err := New(nil, testLogger())
	assert.Error(t, err)
}

func TestGatewayNew_BadJWTSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = "short"

	_, err := New(cfg, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrSecretTooShort)
}

func TestHealthEndpoints(t *testing.T) {
	_, srv := newTestGateway(t, testConfig(t))

	code, body := get(t, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	code, body = get(t, srv.URL+"/health/ready", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready (4 tools)", body)
}

func TestInfoEndpoint(t *testing.T) {
	gw, srv := newTestGateway(t, testConfig(t))

	code, body := get(t, srv.URL+"/info", "")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "running", gjson.Get(body, "status").String())
	assert.Equal(t, "Dynamic Startup Idea Generator MCP Server", gjson.Get(body, "server_name").String())
	assert.Equal(t, gw.serverID, gjson.Get(body, "server_id").String())
	assert.Equal(t, "/mcp", gjson.Get(body, "endpoint").String())
	assert.True(t, gjson.Get(body, "phone_configured").Bool())
	assert.True(t, gjson.Get(body, "demo_enabled").Bool())
	assert.Equal(t, int64(4), gjson.Get(body, "tools.#").Int())
	assert.Equal(t, int64(0), gjson.Get(body, "clients_total").Int())
	assert.False(t, gjson.Get(body, "recent_clients").Exists())

	assert.NotContains(t, body, testToken)
	assert.NotContains(t, body, "919876543210")
}

func TestInfoEndpoint_RecentClientsRequireAuth(t *testing.T) {
	_, srv := newTestGateway(t, testConfig(t))

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"gw-test","version":"0.1"}}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp", strings.NewReader(initialize))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, anon := get(t, srv.URL+"/info", "")
	assert.Equal(t, int64(1), gjson.Get(anon, "clients_total").Int())
	assert.False(t, gjson.Get(anon, "recent_clients").Exists())

	_, authed := get(t, srv.URL+"/info", testToken)
	assert.Equal(t, "gw-test", gjson.Get(authed, "recent_clients.0.name").String())
	assert.Equal(t, "puch-client", gjson.Get(authed, "recent_clients.0.principal").String())
}

func TestMCPEndpoint_RequiresBearer(t *testing.T) {
	_, srv := newTestGateway(t, testConfig(t))

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err := http.Post(srv.URL+"/mcp", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
}

func TestMCPEndpoint_AcceptsJWTWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = strings.Repeat("s", 32)
	gw, srv := newTestGateway(t, cfg)
	require.True(t, gw.jwtEnabled)

	v, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)
	token, err := v.Generate("ops", time.Hour)
	require.NoError(t, err)

	_, body := get(t, srv.URL+"/info", token)
	assert.True(t, gjson.Get(body, "jwt_enabled").Bool())

	initialize := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"jwt","version":"1"}}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/mcp", strings.NewReader(initialize))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDemoDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Demo.Enabled = false
	gw, srv := newTestGateway(t, cfg)

	assert.Nil(t, gw.demo)
	code, _ := get(t, srv.URL+"/", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDemoEnabled(t *testing.T) {
	_, srv := newTestGateway(t, testConfig(t))

	code, body := get(t, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "startup_idea_generator")
}

func postDemo(t *testing.T, target string, form url.Values, token string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestDemoToolsRequireToken(t *testing.T) {
	var fetched atomic.Bool
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched.Store(true)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("INTERNAL-ONLY-PAGE"))
	}))
	t.Cleanup(internal.Close)

	_, srv := newTestGateway(t, testConfig(t))

	code, body := postDemo(t, srv.URL+"/demo/validate", url.Values{}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotContains(t, body, "919876543210")

	code, body = postDemo(t, srv.URL+"/demo/jobs", url.Values{
		"user_goal": {"read this"},
		"job_url":   {internal.URL},
	}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotContains(t, body, "INTERNAL-ONLY-PAGE")
	assert.False(t, fetched.Load(), "anonymous demo call reached the fetcher")

	code, _ = postDemo(t, srv.URL+"/demo/idea", url.Values{"concept": {"tea"}}, "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = postDemo(t, srv.URL+"/demo/validate", url.Values{}, testToken)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "919876543210")
}

func TestRun_GracefulShutdown(t *testing.T) {
	gw, err := New(testConfig(t), testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gw.Run(ctx) }()

	var addr string
	select {
	case addr = <-gw.Listening():
	case <-time.After(5 * time.Second):
		t.Fatal("gateway did not start listening")
	}

	code, body := get(t, "http://"+addr+"/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = -1

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)

	err = gw.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on HTTP address")
}
