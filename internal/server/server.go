// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes question generation over HTTP.
//
// The server starts unready and answers 503 on /readyz and /api/mcqs until
// a Generator is installed with SetGenerator, which happens once the lexicon
// has loaded.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// ErrNotReady is reported while the lexicon is still loading.
var ErrNotReady = errors.New("lexicon not loaded")

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 10 * time.Second

// Generator produces questions for a document.
type Generator interface {
	Generate(ctx context.Context, text string) ([]types.MCQ, error)
}

type generatorBox struct{ g Generator }

// Server serves the HTTP API.
type Server struct {
	cfg types.ServerConfig
	log *zap.Logger
	gen atomic.Pointer[generatorBox]
}

// New creates an unready Server. Zero-valued settings in cfg take their
// defaults. A nil logger discards output.
func New(cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := types.DefaultServerConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = def.HandlerTimeout
	}
	return &Server{cfg: cfg, log: logger}
}

// SetGenerator installs g and marks the server ready.
func (s *Server) SetGenerator(g Generator) {
	s.gen.Store(&generatorBox{g: g})
	s.log.Info("server ready")
}

// Ready reports whether a Generator is installed.
func (s *Server) Ready() bool {
	return s.gen.Load() != nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.HandlerTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !s.Ready() {
			writeErr(w, http.StatusServiceUnavailable, ErrNotReady.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Post("/api/mcqs", s.handleGenerate)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type mcqsResp struct {
	MCQs []types.MCQ `json:"mcqs"`

	// Partial is set when the pipeline deadline expired and MCQs holds only
	// the questions finished before it.
	Partial bool `json:"partial,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	box := s.gen.Load()
	if box == nil {
		writeErr(w, http.StatusServiceUnavailable, ErrNotReady.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	text, status, err := s.readDocument(r)
	if err != nil {
		writeErr(w, status, err.Error())
		return
	}

	mcqs, err := box.g.Generate(r.Context(), text)
	resp := mcqsResp{MCQs: mcqs}
	if err != nil {
		log := s.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
		switch {
		case r.Context().Err() != nil:
			// The client went away or the handler timeout fired; the
			// Timeout middleware writes the 504.
			log.Warn("request ended before generation finished", zap.Error(err))
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Warn("generation timed out, returning partial results",
				zap.Int("questions", len(mcqs)), zap.Error(err))
			resp.Partial = true
		default:
			log.Error("generation failed", zap.Error(err))
			writeErr(w, http.StatusInternalServerError, "question generation failed")
			return
		}
	}
	if resp.MCQs == nil {
		resp.MCQs = []types.MCQ{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// readDocument extracts the document from a text/plain body or the "file"
// field of a multipart form. The returned status applies when err is set.
func (s *Server) readDocument(r *http.Request) (string, int, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	var data []byte
	switch mediaType {
	case "text/plain", "":
		data, err = io.ReadAll(r.Body)
	case "multipart/form-data":
		data, err = readFormFile(r, s.cfg.MaxBodyBytes)
	default:
		return "", http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content type %q", mediaType)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", http.StatusRequestEntityTooLarge, fmt.Errorf("document exceeds %d bytes", tooLarge.Limit)
		}
		return "", http.StatusBadRequest, err
	}
	return string(data), 0, nil
}

func readFormFile(r *http.Request, maxBytes int64) ([]byte, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("reading form file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: strings.TrimSpace(msg)})
}
