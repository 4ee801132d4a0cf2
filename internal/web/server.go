// Package web serves the word-cloud page and its JSON endpoints.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtnitsch/wiki-wordcloud/internal/common"
	"github.com/dtnitsch/wiki-wordcloud/pkg/palette"
	"github.com/dtnitsch/wiki-wordcloud/pkg/pipeline"
	"github.com/dtnitsch/wiki-wordcloud/pkg/wordcloud"
)

// maxFormMemory bounds the in-memory part of a multipart form body.
const maxFormMemory = 1 << 20

//go:embed static/index.html
var indexHTML []byte

// Resolver is the part of pipeline.Service the handlers need.
type Resolver interface {
	Resolve(ctx context.Context, category string, opts pipeline.ResolveOptions) (*pipeline.Result, error)
}

// Server holds the handler dependencies.
type Server struct {
	resolver Resolver
	logger   *slog.Logger
}

// NewServer creates a Server.
func NewServer(resolver Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{resolver: resolver, logger: logger}
}

// Router builds the chi router for all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.Index)
	r.Get("/color-palettes", s.Palettes)
	r.Post("/analyze", s.Analyze)
	return r
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		s.logger.Error("Failed to write index page", "error", err)
	}
}

func (s *Server) Palettes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, palette.All())
}

// Analyze answers with the sized word list for the posted category.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	category := common.SanitizeCategory(r.PostFormValue("category"))
	if category == "" {
		s.writeError(w, http.StatusBadRequest, "Category is required")
		return
	}
	paletteName := r.PostFormValue("palette")
	if paletteName == "" {
		paletteName = palette.DefaultName
	}

	// A dropped connection must not cancel a run other requests may share.
	ctx := context.WithoutCancel(r.Context())
	res, err := s.resolver.Resolve(ctx, category, pipeline.ResolveOptions{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Error analyzing category: "+err.Error())
		return
	}
	if res.Origin == pipeline.OriginStale {
		w.Header().Set("X-Cache-Stale", res.Timestamp.Format(time.RFC3339))
	}

	s.writeJSON(w, http.StatusOK, wordcloud.Build(res.Frequencies, palette.Get(paletteName)))
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

// requestLogger logs one line per request with the chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
