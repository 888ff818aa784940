package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/texotip/internal/annotate"
	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/dictionary"
)

const sitePage = `<html><body><article class="page-content">` +
	`<a href="#" class="tooltip" id="texotip0" data-content="Application Programming Interface" data-url="">API</a>` +
	`</article></body></html>`

func setupServer(t *testing.T, dict string, mutate func(*config.Config)) *Server {
	t.Helper()
	root := t.TempDir()
	cfg := *config.DefaultConfig()
	cfg.Dictionary = filepath.Join(root, "data")
	cfg.Site.OutputDir = filepath.Join(root, "site")
	if mutate != nil {
		mutate(&cfg)
	}

	if err := os.MkdirAll(cfg.Dictionary, 0o755); err != nil {
		t.Fatal(err)
	}
	if dict != "" {
		if err := os.WriteFile(filepath.Join(cfg.Dictionary, "en_GB"+dictionary.FileSuffix), []byte(dict), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(cfg.Site.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Site.OutputDir, "index.html"), []byte(sitePage), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := log.New(&strings.Builder{})
	a, err := annotate.New(cfg, nil, logger)
	if err != nil {
		t.Fatalf("annotate.New: %v", err)
	}
	return New(cfg, a, logger)
}

const dict = `[{"text":"API","content":"Application Programming Interface"},{"text":"API","content":"dup"}]`

func TestHealthCheck(t *testing.T) {
	srv := setupServer(t, dict, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupServer(t, dict, func(c *config.Config) { c.Server.AllowAll = true })

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestDictionaryEndpoint(t *testing.T) {
	srv := setupServer(t, dict, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/dictionary", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Ref     string             `json:"ref"`
		Entries []dictionary.Entry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Entries) != 2 || !strings.HasSuffix(body.Ref, "en_GB.texotip.json") {
		t.Errorf("unexpected body %+v", body)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/dictionary/lint", nil))
	var lint struct {
		Warnings []lintWarning `json:"warnings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lint); err != nil {
		t.Fatal(err)
	}
	if len(lint.Warnings) != 1 || lint.Warnings[0].Kind != "duplicate" {
		t.Errorf("unexpected warnings %+v", lint.Warnings)
	}
}

func TestDictionaryEndpointMissing(t *testing.T) {
	srv := setupServer(t, "", nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/dictionary", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestAnnotateEndpoint(t *testing.T) {
	srv := setupServer(t, dict, nil)

	body := `{"markup":"<p>Visit <a href=\"/x\">our site</a> for API docs.</p>"}`
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/annotate", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp annotateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Elements) != 1 || resp.Elements[0].ID != "texotip1" || resp.Shielded != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
	if !strings.Contains(resp.Markup, `<a href="/x">our site</a>`) {
		t.Errorf("pre-existing link should be untouched: %s", resp.Markup)
	}
}

func TestAnnotateEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		dict   string
		body   string
		status int
	}{
		{"bad json", dict, "{", http.StatusBadRequest},
		{"missing text", `[{"content":"x"}]`, `{"markup":"API"}`, http.StatusUnprocessableEntity},
		{"no dictionary", "", `{"markup":"API"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(t, tt.dict, nil)
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/annotate", strings.NewReader(tt.body)))
			if w.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestStaticSite(t *testing.T) {
	srv := setupServer(t, dict, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/index.html", nil))
	// http.FileServer redirects /index.html to /.
	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("expected redirect, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `id="texotip0"`) {
		t.Errorf("expected the site index, got %d", w.Code)
	}
}

func TestLiveRoute(t *testing.T) {
	srv := setupServer(t, dict, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live?page=index.html"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	var ready struct {
		Type     string `json:"type"`
		Popovers int    `json:"popovers"`
	}
	if err := conn.ReadJSON(&ready); err != nil {
		t.Fatal(err)
	}
	if ready.Type != "ready" || ready.Popovers != 1 {
		t.Errorf("unexpected ready message %+v", ready)
	}

	resp, err := http.Get(ts.URL + "/live?page=../../etc/passwd")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for a path outside the site, got %d", resp.StatusCode)
	}
}

func TestSitePageDefaultsToIndex(t *testing.T) {
	srv := setupServer(t, dict, nil)
	for _, name := range []string{"", "/"} {
		page, err := srv.sitePage(context.Background(), name)
		if err != nil || !strings.Contains(page, "texotip0") {
			t.Errorf("sitePage(%q) = %v", name, err)
		}
	}
}
