package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/xuri/excelize/v2"

	"MarketLens/internal/collector"
	"MarketLens/internal/dashboard"
	"MarketLens/internal/model"
	"MarketLens/internal/universe"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticUniverse []model.Symbol

func (u staticUniverse) Name() string                           { return "static" }
func (u staticUniverse) Symbols(context.Context) []model.Symbol { return u }

func newTestServer(failHistory bool) *Server {
	m := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"AAA":     collector.GenerateMockBars(100, 0.001, 300),
			"BBB":     collector.GenerateMockBars(40, -0.001, 300),
			"2330.TW": collector.GenerateMockBars(600, 0.002, 260),
		},
		Quotes: map[string]*model.Fundamentals{
			"AAA":     {Symbol: "AAA", MarketCap: 3e12},
			"BBB":     {Symbol: "BBB", MarketCap: 4e10},
			"2330.TW": {Symbol: "2330.TW", Name: "TSMC", MarketCap: 2.5e13},
		},
		FailHistory: failHistory,
	}
	svc := dashboard.New(dashboard.Options{
		Collector: collector.NewCollector(m, 2),
		Universes: map[string]universe.Provider{
			dashboard.UniverseUS: staticUniverse{
				{Ticker: "AAA", Name: "Alpha", Sector: "Tech", Industry: "Software"},
				{Ticker: "BBB", Name: "Beta", Sector: "Energy", Industry: "Oil"},
			},
			dashboard.UniverseTW: universe.TaiwanProvider{},
		},
	})
	return New(svc)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRoutes(t *testing.T) {
	router := newTestServer(false).Router()
	tests := []struct {
		name   string
		method string
		path   string
		status int
		key    string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, "status"},
		{"modes", http.MethodGet, "/api/modes", http.StatusOK, "modes"},
		{"status", http.MethodGet, "/api/status", http.StatusOK, "source"},
		{"treemap", http.MethodGet, "/api/treemap/us", http.StatusOK, "panels"},
		{"unknown universe", http.MethodGet, "/api/treemap/jp", http.StatusBadRequest, "error"},
		{"technical", http.MethodGet, "/api/technical/2330?period=1y", http.StatusOK, "figure"},
		{"bad period", http.MethodGet, "/api/technical/AAA?period=9y", http.StatusBadRequest, "error"},
		{"bad ticker", http.MethodGet, "/api/technical/A%20A", http.StatusBadRequest, "error"},
		{"unknown ticker", http.MethodGet, "/api/technical/ZZZ", http.StatusOK, "message"},
		{"ranking", http.MethodGet, "/api/ranking", http.StatusOK, "figure"},
		{"refresh", http.MethodPost, "/api/refresh", http.StatusOK, "refresh_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, "")
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if _, ok := decode(t, w)[tt.key]; !ok {
				t.Errorf("response missing %q: %s", tt.key, w.Body.String())
			}
		})
	}
}

func TestIndex(t *testing.T) {
	w := do(t, newTestServer(false).Router(), http.MethodGet, "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "plotly") {
		t.Errorf("index: %d", w.Code)
	}
}

func TestTreemapNoDataIsMessage(t *testing.T) {
	w := do(t, newTestServer(true).Router(), http.MethodGet, "/api/treemap/us", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if msg, _ := decode(t, w)["message"].(string); !strings.Contains(msg, "No data") {
		t.Errorf("message = %q", msg)
	}
}

func TestInputs(t *testing.T) {
	router := newTestServer(false).Router()

	w := do(t, router, http.MethodPut, "/api/inputs", `{"m2_growth_pct":4.5,"margin_debt":800,"margin_debt_prev":750}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put: %d %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodGet, "/api/inputs", "")
	got := decode(t, w)
	if got["m2_growth_pct"] != 4.5 || got["margin_debt"] != 800.0 {
		t.Errorf("inputs = %v", got)
	}

	w = do(t, router, http.MethodPut, "/api/inputs", `{"margin_debt":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative margin debt: status %d", w.Code)
	}
}

func TestExport(t *testing.T) {
	w := do(t, newTestServer(false).Router(), http.MethodGet, "/api/export/us", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %s", ct)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(ExportSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Ticker" || rows[1][0] != "AAA" || rows[2][0] != "BBB" {
		t.Errorf("rows not ordered by cap: %v", rows)
	}
	if rows[1][10] != "$3T" {
		t.Errorf("cap label = %q", rows[1][10])
	}
}

func TestWebsocketPushesRefresh(t *testing.T) {
	s := newTestServer(false)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	defer s.Hub().Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var greet StatusMessage
	if err := conn.ReadJSON(&greet); err != nil {
		t.Fatalf("greeting: %v", err)
	}
	if greet.Type != "status" || greet.Text != "Connected" {
		t.Errorf("greeting = %+v", greet)
	}

	w := do(t, s.Router(), http.MethodPost, "/api/refresh", "")
	want := decode(t, w)["refresh_id"]

	var msg StatusMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("refresh push: %v", err)
	}
	if msg.Status == nil || msg.Status.RefreshID != want {
		t.Errorf("pushed %+v, want refresh id %v", msg.Status, want)
	}
}

func TestWebsocketRejectsForeignOrigin(t *testing.T) {
	s := newTestServer(false)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	defer s.Hub().Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	tests := []struct {
		name   string
		origin string
		ok     bool
	}{
		{"no origin", "", true},
		{"same host", ts.URL, true},
		{"other site", "https://evil.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if tt.ok {
				if err != nil {
					t.Fatalf("dial: %v", err)
				}
				conn.Close()
				return
			}
			if err == nil {
				conn.Close()
				t.Fatal("expected handshake to be rejected")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("expected 403, got %+v", resp)
			}
		})
	}
}

func TestIndexHasManualInputsForm(t *testing.T) {
	body := do(t, newTestServer(false).Router(), http.MethodGet, "/", "").Body.String()
	for _, field := range []string{"m2_growth_pct", "margin_debt", "margin_debt_prev", "'/api/inputs'"} {
		if !strings.Contains(body, field) {
			t.Errorf("page missing %s", field)
		}
	}
	if strings.Contains(body, "innerHTML") {
		t.Error("page should build rows with textContent")
	}
}
