package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"barstore/internal/backend"
	"barstore/internal/backend/backendtest"
	"barstore/internal/http/handlers"
	applog "barstore/internal/log"
	"barstore/internal/repos"
	"barstore/internal/services"
)

type testApp struct {
	app     *fiber.App
	backend *backendtest.Server
	state   *services.AppState
	csrf    string
}

type appOpts struct {
	csrf    bool
	limit   int
	policy  services.FailurePolicy
	seedBar []backendtest.Bar
}

func goldBars() []backendtest.Bar {
	return []backendtest.Bar{
		{ID: 42, NameEn: "Bar 42", Weight: "10", Karat: "21", Maker: "BTC", GoldPrice: 4500, MakingCharge: 300},
		{ID: 43, NameEn: "Bar 43", Weight: "5", Karat: "24", Maker: "Valcambi", GoldPrice: 1234, Image: "https://img.example/43.png"},
	}
}

func newTestApp(t *testing.T, opts appOpts) *testApp {
	t.Helper()
	if opts.seedBar == nil {
		opts.seedBar = goldBars()
	}
	srv := backendtest.NewServer(t, opts.seedBar...)

	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	session := services.NewSessionService(repos.NewLocalStorageRepo(db))
	client := backend.NewClient(srv.URL, 2*time.Second, session)
	state := services.NewAppState(session, client, opts.policy)

	app := fiber.New(fiber.Config{
		Views:        handlers.NewEngine("../../web/templates", false),
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.limit > 0 {
		app.Use(handlers.Limiter(opts.limit, time.Minute))
	}
	if opts.csrf {
		app.Use(handlers.CSRF(false))
		app.Use(handlers.ExposeCSRF)
	}
	handlers.Routes(app, handlers.NewDeps(state), func() fiber.Map {
		return fiber.Map{"catalog_loaded": state.Catalog.Loaded()}
	})
	return &testApp{app: app, backend: srv, state: state}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	if a.csrf != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: a.csrf})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == "csrf_" && ck.Value != "" {
			a.csrf = ck.Value
		}
	}
	return resp, string(body)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	if a.csrf != "" {
		form.Set("csrf", a.csrf)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

func (a *testApp) postJSON(t *testing.T, path string, v any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, body := a.do(t, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return resp, out
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs runs fn with the app log redirected and returns the entries.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	buf.mu.Lock()
	defer buf.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
