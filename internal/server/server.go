// Package server provides the HTTP REST API for the resume agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-agent/internal/fetch"
	"github.com/jonathan/resume-agent/internal/status"
	"github.com/jonathan/resume-agent/internal/types"
	"github.com/jonathan/resume-agent/internal/workflow"
)

// Runner starts workflow runs. Satisfied by *workflow.Engine.
type Runner interface {
	Start(ctx context.Context, req workflow.Request) (uuid.UUID, error)
}

// Config holds server configuration.
type Config struct {
	Port int
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	statuses   *status.Service
	engine     Runner
	validate   *validator.Validate

	// fetchJD retrieves the job description when the client submits only a
	// URL. Overridable in tests.
	fetchJD func(ctx context.Context, url string) (string, error)
}

// New creates a new server instance.
func New(cfg Config, statuses *status.Service, engine Runner) *Server {
	s := &Server{
		statuses: statuses,
		engine:   engine,
		validate: validator.New(),
		fetchJD: func(ctx context.Context, url string) (string, error) {
			return fetch.JobDescription(ctx, url, nil)
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-resume", s.handleGenerateResume)
	mux.HandleFunc("GET /status", s.handleGetStatus)
	mux.HandleFunc("GET /statuses", s.handleListStatuses)
	mux.HandleFunc("POST /statuses/{id}/applied", s.handleSetApplied)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens for requests until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.statuses.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers so the browser extension can call the API.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.jsonResponse(w, statusCode, types.ErrorResponse{Error: message})
}
