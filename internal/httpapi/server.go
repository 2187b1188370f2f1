// Package httpapi serves a read-only HTTP view of a built schema, for
// operators and tooling that need to see what a client instance was
// configured with.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/easydb-io/easydb-go/internal/logger"
	"github.com/easydb-io/easydb-go/internal/schema"
)

// Server exposes GET /healthz, GET /schema and GET /schema/{table}.
// The schema is immutable, so every handler is a pure read.
type Server struct {
	schema *schema.Schema
	log    *logger.Logger
}

// New creates a Server for an already-built schema.
func New(s *schema.Schema, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}
	return &Server{schema: s, log: log}
}

// Handler builds the chi router for the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/schema", s.handleSchema)
	r.Get("/schema/{table}", s.handleTable)

	return r
}

// --- JSON shapes ---

type columnJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type tableJSON struct {
	Name    string       `json:"name"`
	Columns []columnJSON `json:"columns"`
}

type schemaJSON struct {
	TableCount int         `json:"table_count"`
	Tables     []tableJSON `json:"tables"`
}

func toTableJSON(t *schema.Table) tableJSON {
	cols := make([]columnJSON, 0, t.ColumnCount())
	for _, c := range t.Columns() {
		cols = append(cols, columnJSON{Name: c.Name(), Type: c.Type().String()})
	}
	return tableJSON{Name: t.Name(), Columns: cols}
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	tables := s.schema.Tables()
	out := schemaJSON{
		TableCount: s.schema.TableCount(),
		Tables:     make([]tableJSON, 0, len(tables)),
	}
	for _, t := range tables {
		out.Tables = append(out.Tables, toTableJSON(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	t, ok := s.schema.Table(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "unknown table " + name,
		})
		return
	}
	writeJSON(w, http.StatusOK, toTableJSON(t))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request with method, path, status and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.HTTPEvent().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
