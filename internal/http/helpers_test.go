package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"salesledger/internal/config"
	"salesledger/internal/http/handlers"
	applog "salesledger/internal/log"
	"salesledger/internal/repos"
)

const (
	adminEmail = "admin@salesledger.test"
	adminPass  = "Passw0rd!"
)

type testApp struct {
	app  *fiber.App
	deps *handlers.Deps
	db   *sqlx.DB
}

func newTestApp(t *testing.T, authRequired bool) testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.SeedAdmin(db, adminEmail, adminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	cfg := config.Config{TemplatesDir: "../../web/templates", AuthRequired: authRequired}
	app, deps := handlers.NewApp(cfg, db)
	deps.SaleHandler.Ledger.Now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	return testApp{app: app, deps: deps, db: db}
}

func (ta testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (ta testApp) json(t *testing.T, method, path string, payload any) (*http.Response, string) {
	t.Helper()
	var r io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ta.do(t, req)
}

// form posts a url-encoded body with the CSRF token and any cookies given.
func (ta testApp) form(t *testing.T, path, csrfTok, body string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader("csrf="+csrfTok+"&"+body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ta.do(t, req)
}

// csrfToken fetches a page to obtain the double-submit cookie.
func (ta testApp) csrfToken(t *testing.T, cookies ...*http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/login", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, _ := ta.do(t, req)
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func (ta testApp) addProducts(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		resp, body := ta.json(t, "POST", "/api/v1/products", map[string]string{"name": n})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register %s: %d %s", n, resp.StatusCode, body)
		}
	}
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Kind   string         `json:"kind"`
	ReqID  string         `json:"req_id"`
	Fields map[string]any `json:"fields"`
}

// captureLogs swaps the application log output for the duration of fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	old := applog.Writer()
	applog.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	defer applog.SetOutput(old)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
