package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiogrid/pkg/cache"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/observability"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { runner.Close() })
	return NewRouter(runner, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

const tenSquares = `"ratios": [1, 1, 1, 1, 1, 1, 1, 1, 1, 1]`

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestLayout(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/layout", `{`+tenSquares+`, "width": 350, "top": 130, "height": 100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/layout = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[pipeline.Result](t, rec)
	if result.Range != geom.NewRange(3, 5) {
		t.Errorf("Range = %v, want [3,5]", result.Range)
	}
	if len(result.Table.Items) != 10 || result.Table.Extent != 710 {
		t.Errorf("table has %d items and extent %v, want 10 and 710", len(result.Table.Items), result.Table.Extent)
	}
	if result.CacheInfo.BoundsHit {
		t.Error("first layout should not be cached")
	}

	rec = do(t, h, http.MethodPost, "/v1/layout", `{`+tenSquares+`, "width": 350, "top": 130, "height": 100}`)
	if result := decodeBody[pipeline.Result](t, rec); !result.CacheInfo.BoundsHit {
		t.Error("second layout should be cached")
	}
}

func TestLayoutZeroSpacing(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/layout",
		`{"ratios": [1, 1], "width": 210, "column_spacing": 0, "row_spacing": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/layout = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[pipeline.Result](t, rec)
	if got := result.Table.Items[1].X; got != 105 {
		t.Errorf("second item X = %v, want 105", got)
	}
	if result.Table.Extent != 105 {
		t.Errorf("Extent = %v, want 105", result.Table.Extent)
	}
}

func TestRange(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodPost, "/v1/range", `{`+tenSquares+`, "width": 350, "top": 130, "height": 100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/range = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[RangeResponse](t, rec)
	if resp.Range != geom.NewRange(3, 5) {
		t.Errorf("Range = %v, want [3,5]", resp.Range)
	}
	if len(resp.Items) != 3 || resp.Items[0].Index != 3 {
		t.Errorf("Items = %+v, want items 3 to 5", resp.Items)
	}
	if resp.Rows != 4 {
		t.Errorf("Rows = %d, want 4", resp.Rows)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"bad ratio", http.MethodPost, "/v1/layout", `{"ratios": [1, -1]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad width", http.MethodPost, "/v1/range", `{"ratios": [1], "width": -3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/v1/layout", `{"ratio": [1]}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"malformed", http.MethodPost, "/v1/layout", `{"ratios": `, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown dataset", http.MethodGet, "/v1/datasets/nope", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"empty dataset", http.MethodPost, "/v1/datasets", `{"ratios": [0]}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	h := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.status)
			}
			if got := decodeBody[errorResponse](t, rec); got.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", got.Code, tt.code, got.Error)
			}
		})
	}
}

func TestDatasets(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/datasets", `{`+tenSquares+`}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/datasets = %d: %s", rec.Code, rec.Body.String())
	}
	stored := decodeBody[DatasetResponse](t, rec)
	if stored.Hash != cache.HashRatios([]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}) || stored.Items != 10 {
		t.Errorf("stored = %+v", stored)
	}

	rec = do(t, h, http.MethodGet, "/v1/datasets/"+stored.Hash, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET dataset = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/v1/datasets/"+stored.Hash+"/layout", `{"width": 350, "top": 5000, "height": 100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST dataset layout = %d: %s", rec.Code, rec.Body.String())
	}
	if result := decodeBody[pipeline.Result](t, rec); result.Range != geom.NewRange(9, 9) {
		t.Errorf("Range = %v, want [9,9]", result.Range)
	}

	rec = do(t, h, http.MethodPost, "/v1/datasets/"+stored.Hash+"/layout", "")
	if rec.Code != http.StatusOK {
		t.Errorf("POST dataset layout without body = %d: %s", rec.Code, rec.Body.String())
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	patterns []string
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.patterns = append(h.patterns, path)
	h.statuses = append(h.statuses, status)
}

func TestObserveReportsRoutePattern(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	do(t, newTestRouter(t), http.MethodGet, "/v1/datasets/abc", "")

	if len(hooks.patterns) != 1 {
		t.Fatalf("recorded %d responses, want 1", len(hooks.patterns))
	}
	if hooks.patterns[0] != "/v1/datasets/{hash}" {
		t.Errorf("path = %q, want the route pattern", hooks.patterns[0])
	}
	if hooks.statuses[0] != http.StatusNotFound {
		t.Errorf("status = %d, want %d", hooks.statuses[0], http.StatusNotFound)
	}
}
