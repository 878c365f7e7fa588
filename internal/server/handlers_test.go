package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/kuliner/internal/config"
	"github.com/hyperjump/kuliner/internal/fixtures"
	"github.com/hyperjump/kuliner/internal/models"
	"github.com/hyperjump/kuliner/internal/recommend"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	e, err := recommend.New(fixtures.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(recommend.NewHolder(e), config.Default(), zap.NewNop())
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

type recommendBody struct {
	RequestID     string `json:"request_id"`
	Query         string `json:"query"`
	ResolvedQuery string `json:"resolved_query"`
	Mode          string `json:"mode"`
	Warning       string `json:"warning"`
	WarningKind   string `json:"warning_kind"`
	Cached        bool   `json:"cached"`
	Results       []struct {
		Rank     int     `json:"rank"`
		Score    float64 `json:"score"`
		Business struct {
			Name      string `json:"name"`
			Category  string `json:"category"`
			PriceTier string `json:"price_tier"`
		} `json:"business"`
	} `json:"results"`
}

func decodeRecommend(t *testing.T, w *httptest.ResponseRecorder) recommendBody {
	t.Helper()
	var out recommendBody
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestHandleRecommendPost(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"Kpi murahh","top_n":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	out := decodeRecommend(t, w)
	if out.RequestID == "" {
		t.Error("request_id should be set")
	}
	if out.ResolvedQuery != "kopi murah" {
		t.Errorf("resolved_query: got %q", out.ResolvedQuery)
	}
	if len(out.Results) != 3 {
		t.Fatalf("results: got %d, want 3", len(out.Results))
	}
	for i, r := range out.Results {
		if r.Rank != i+1 {
			t.Errorf("rank %d: got %d", i, r.Rank)
		}
		if r.Business.Category != "Cafe & Dessert" {
			t.Errorf("result %d category: got %s", i, r.Business.Category)
		}
	}
	if out.Cached {
		t.Error("first request should not be cached")
	}
}

func TestHandleRecommend_Cache(t *testing.T) {
	srv := newTestServer(t)
	first := decodeRecommend(t, do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"masakan padang"}`))
	second := decodeRecommend(t, do(t, srv, http.MethodGet, "/api/v1/recommend?q=Masakan+%20Padang", ""))
	if first.Cached || !second.Cached {
		t.Errorf("cached flags: first %v, second %v", first.Cached, second.Cached)
	}
	if first.RequestID == second.RequestID {
		t.Error("request ids should differ per request")
	}
	if len(first.Results) != len(second.Results) {
		t.Fatalf("cached results differ: %d vs %d", len(first.Results), len(second.Results))
	}

	e, err := recommend.New(fixtures.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	srv.holder.Swap(e)
	srv.OnSwap(e)
	third := decodeRecommend(t, do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"masakan padang"}`))
	if third.Cached {
		t.Error("cache should be flushed after swap")
	}
}

func TestHandleRecommend_CacheHitEchoesCallerQuery(t *testing.T) {
	srv := newTestServer(t)
	first := decodeRecommend(t, do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"masakan padang"}`))
	second := decodeRecommend(t, do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"Masakan PADANG"}`))
	if !second.Cached {
		t.Fatal("second request should hit the cache")
	}
	if first.Query != "masakan padang" || second.Query != "Masakan PADANG" {
		t.Errorf("query echo: first %q, second %q", first.Query, second.Query)
	}
	third := decodeRecommend(t, do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"masakan padang"}`))
	if third.Query != "masakan padang" {
		t.Errorf("cached entry was modified: got %q", third.Query)
	}
}

func TestCacheIfCurrent_SkipsReplacedEngine(t *testing.T) {
	srv := newTestServer(t)
	old := srv.holder.Load()
	rec, err := old.Recommend("masakan padang", models.PriceAll, 5)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		swap   bool
		cached bool
	}{
		{name: "current engine", swap: false, cached: true},
		{name: "engine swapped while ranking", swap: true, cached: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.cache.Flush()
			if tt.swap {
				e, err := recommend.New(fixtures.Catalog())
				if err != nil {
					t.Fatal(err)
				}
				srv.holder.Swap(e)
				srv.OnSwap(e)
			}
			key := cacheKey("masakan padang", models.PriceAll, 5)
			srv.cacheIfCurrent(key, old, rec)
			if _, ok := srv.cache.Get(key); ok != tt.cached {
				t.Errorf("cached: got %v, want %v", ok, tt.cached)
			}
		})
	}
}

func TestHandleRecommendGet_PriceFilter(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/recommend?q=kopi&price=mahal&top_n=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	out := decodeRecommend(t, w)
	if len(out.Results) == 0 || out.Results[0].Business.Name != "Koffie Huis" {
		t.Errorf("expected Koffie Huis first, got %+v", out.Results)
	}
}

func TestHandleRecommend_Warning(t *testing.T) {
	srv := newTestServer(t)
	out := decodeRecommend(t, do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"sushi padang"}`))
	if out.WarningKind != "cuisine_conflict" {
		t.Errorf("warning_kind: got %q", out.WarningKind)
	}
	if !strings.Contains(out.Warning, "Masakan Padang") {
		t.Errorf("warning: got %q", out.Warning)
	}
}

func TestHandleRecommend_BadRequests(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"malformed body", http.MethodPost, "/api/v1/recommend", `{"query":`},
		{"missing query", http.MethodPost, "/api/v1/recommend", `{"top_n":3}`},
		{"blank query", http.MethodPost, "/api/v1/recommend", `{"query":"   "}`},
		{"unknown price", http.MethodPost, "/api/v1/recommend", `{"query":"kopi","price_filter":"gratis"}`},
		{"negative top_n", http.MethodPost, "/api/v1/recommend", `{"query":"kopi","top_n":-1}`},
		{"top_n over limit", http.MethodPost, "/api/v1/recommend", `{"query":"kopi","top_n":1000}`},
		{"non-numeric top_n", http.MethodGet, "/api/v1/recommend?q=kopi&top_n=abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, tt.method, tt.target, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			var out map[string]string
			if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
				t.Fatal(err)
			}
			if out["error"] == "" {
				t.Error("error message should be set")
			}
		})
	}
}

func TestHandleRecommend_TooShortQuery(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"di"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if out := decodeRecommend(t, w); len(out.Results) != 0 {
		t.Errorf("results: got %d, want 0", len(out.Results))
	}
}

func TestHandleBusinesses(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		target string
		status int
		count  int
	}{
		{"/api/v1/businesses?category=cafe", http.StatusOK, 5},
		{"/api/v1/businesses?category=cafe&limit=2", http.StatusOK, 2},
		{"/api/v1/businesses?price=mahal", http.StatusOK, 4},
		{"/api/v1/businesses?location=braga", http.StatusOK, 4},
		{"/api/v1/businesses?price=mahal&limit=1", http.StatusOK, 1},
		{"/api/v1/businesses", http.StatusBadRequest, 0},
		{"/api/v1/businesses?category=cafe&limit=x", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		w := do(t, srv, http.MethodGet, tt.target, "")
		if w.Code != tt.status {
			t.Errorf("%s: status got %d, want %d", tt.target, w.Code, tt.status)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}
		var out struct {
			Count int `json:"count"`
		}
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out.Count != tt.count {
			t.Errorf("%s: count got %d, want %d", tt.target, out.Count, tt.count)
		}
	}
}

func TestHandleCategoriesAndStats(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/categories", "")
	var cats struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(w.Body).Decode(&cats); err != nil {
		t.Fatal(err)
	}
	if len(cats.Categories) == 0 {
		t.Error("categories should not be empty")
	}

	w = do(t, srv, http.MethodGet, "/api/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status: got %d", w.Code)
	}
	var stats struct {
		Stats struct {
			Total int `json:"total"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Stats.Total != len(fixtures.Catalog()) {
		t.Errorf("total: got %d", stats.Stats.Total)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("health: got %d", w.Code)
	}

	empty := NewServer(recommend.NewHolder(nil), config.Default(), nil)
	if w := do(t, empty, http.MethodGet, "/health", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("health without engine: got %d", w.Code)
	}
	if w := do(t, empty, http.MethodPost, "/api/v1/recommend", `{"query":"kopi"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("recommend without engine: got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":"sushi padang"}`)
	do(t, srv, http.MethodPost, "/api/v1/recommend", `{"query":""}`)

	body := do(t, srv, http.MethodGet, "/metrics", "").Body.String()
	for _, want := range []string{
		`kuliner_http_requests_total{outcome="ok",route="recommend"} 1`,
		`kuliner_http_requests_total{outcome="bad_request",route="recommend"} 1`,
		`kuliner_recommend_warnings_total{kind="cuisine_conflict"} 1`,
		`kuliner_recommend_cache_lookups_total{result="miss"} 1`,
		`kuliner_engine_records 15`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics should contain %q", want)
		}
	}
}
