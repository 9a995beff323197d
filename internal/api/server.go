// Package api serves ratiogrid layouts over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /version
//	POST /v1/layout                  bounds table and visible range for a ratio list
//	POST /v1/range                   visible range and the items in it
//	POST /v1/datasets                store a dataset, returns its hash
//	GET  /v1/datasets/{hash}         fetch a stored dataset
//	POST /v1/datasets/{hash}/layout  layout of a stored dataset
//
// Request bodies are pipeline.Options in JSON. Errors are reported as
// {"code": ..., "error": ...} with a status derived from the error code.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ratiogrid/pkg/buildinfo"
	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/geom"
	rgio "github.com/matzehuels/ratiogrid/pkg/io"
	"github.com/matzehuels/ratiogrid/pkg/observability"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 32 << 20

// Server holds the handlers' dependencies.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewRouter returns the API handler.
func NewRouter(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/range", s.visibleRange)
		r.Post("/datasets", s.storeDataset)
		r.Get("/datasets/{hash}", s.loadDataset)
		r.Post("/datasets/{hash}/layout", s.layoutDataset)
	})
	return r
}

// =============================================================================
// Requests and Responses
// =============================================================================

// layoutRequest lets clients send an explicit zero spacing.
type layoutRequest struct {
	pipeline.Options
	ColumnSpacing *float64 `json:"column_spacing,omitempty"`
	RowSpacing    *float64 `json:"row_spacing,omitempty"`
}

func (req *layoutRequest) options() pipeline.Options {
	opts := req.Options
	if req.ColumnSpacing != nil || req.RowSpacing != nil {
		column, row := pipeline.DefaultColumnSpacing, pipeline.DefaultRowSpacing
		if req.ColumnSpacing != nil {
			column = *req.ColumnSpacing
		}
		if req.RowSpacing != nil {
			row = *req.RowSpacing
		}
		opts.SetSpacing(column, row)
	}
	return opts
}

// RangeResponse is the visible part of a layout.
type RangeResponse struct {
	Range  geom.Range  `json:"range"`
	Items  []rgio.Item `json:"items"`
	Extent float64     `json:"extent"`
	Rows   int         `json:"rows"`
	Cached bool        `json:"cached"`
}

// DatasetResponse identifies a stored dataset.
type DatasetResponse struct {
	Hash  string `json:"hash"`
	Items int    `json:"items"`
}

type errorResponse struct {
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.runner.Execute(r.Context(), req.options())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) visibleRange(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.runner.Execute(r.Context(), req.options())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewRangeResponse(result))
}

func (s *Server) storeDataset(w http.ResponseWriter, r *http.Request) {
	var ds rgio.Dataset
	if !s.decode(w, r, &ds) {
		return
	}
	hash, err := s.runner.StoreDataset(r.Context(), &ds)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DatasetResponse{Hash: hash, Items: len(ds.Ratios)})
}

func (s *Server) loadDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.runner.LoadDataset(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) layoutDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.runner.LoadDataset(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req layoutRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	opts := req.options()
	opts.Ratios = ds.Ratios
	if opts.DefaultRatio == 0 {
		opts.DefaultRatio = ds.DefaultRatio
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// NewRangeResponse cuts the visible items out of a layout result.
func NewRangeResponse(result *pipeline.Result) RangeResponse {
	resp := RangeResponse{
		Range:  result.Range,
		Items:  []rgio.Item{},
		Extent: result.Table.Extent,
		Rows:   result.Table.Rows,
		Cached: result.CacheInfo.BoundsHit,
	}
	if !result.Range.Empty() {
		resp.Items = result.Table.Items[result.Range.Start : result.Range.End+1]
	}
	return resp
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v and reports a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeIndexOutOfRange:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// observe reports every request to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, path, status, d)
		s.logger.Debug("http", "method", r.Method, "path", path, "status", status, "duration", d,
			"request_id", middleware.GetReqID(ctx))
	})
}
