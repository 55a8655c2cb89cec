// Package server is the HTTP surface over the document pipeline: routing,
// bearer-token auth, CORS, and request validation all live here, outside
// the core.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"document-qa/internal/config"
	"document-qa/internal/extractor"
	"document-qa/internal/session"
)

const maxQuestions = 20

// Server wires the pipeline into HTTP handlers.
type Server struct {
	cfg      *config.Config
	pipeline *session.Pipeline
}

func New(cfg *config.Config, pipeline *session.Pipeline) *Server {
	return &Server{cfg: cfg, pipeline: pipeline}
}

// Router builds the chi router with CORS, recovery, and auth middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/api/v1/health", s.handleHealth)
	r.With(s.requireAuth).Post("/api/v1/run", s.handleRun)
	return r
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.cfg.Server.Addr).Msg("Starting HTTP server")
	return http.ListenAndServe(s.cfg.Server.Addr, s.Router())
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if s.cfg.Server.AuthToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Server.AuthToken)) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Invalid authentication token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Document Processing API is running",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "document-processing-api",
		"version": "1.0.0",
	})
}

type processRequest struct {
	Documents string   `json:"documents"`
	Questions []string `json:"questions"`
}

type processResponse struct {
	Answers []string `json:"answers"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "At least one question is required")
		return
	}
	if len(req.Questions) > maxQuestions {
		writeError(w, http.StatusBadRequest, "Maximum 20 questions allowed per request")
		return
	}
	if strings.TrimSpace(req.Documents) == "" {
		writeError(w, http.StatusBadRequest, "Document must be a URL or file path")
		return
	}

	filePath := req.Documents
	var tempFile string
	if strings.HasPrefix(req.Documents, "http") {
		downloaded, err := downloadFile(r.Context(), req.Documents)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tempFile = downloaded
		filePath = downloaded
	} else if _, err := os.Stat(filePath); err != nil {
		writeError(w, http.StatusBadRequest, "Local file not found: "+filePath)
		return
	}
	defer cleanupFile(tempFile)

	answers, err := s.pipeline.Process(r.Context(), filePath, req.Questions)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, extractor.ErrUnsupportedFormat) || errors.Is(err, session.ErrEmptyContent) {
			status = http.StatusBadRequest
		}
		log.Error().Err(err).Msg("Failed to process document")
		writeError(w, status, "Failed to process document: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, processResponse{Answers: answers})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
