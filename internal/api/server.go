// Package api exposes the admin HTTP surface: health, metrics, subscriber
// management, storm history, and manual cycle triggering.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hailscout/hailscout/internal/checker"
	"github.com/hailscout/hailscout/internal/store"
	"github.com/hailscout/hailscout/internal/zones"
)

type Server struct {
	store   *store.Store
	checker *checker.Checker
	logger  *slog.Logger
	addr    string
}

func NewServer(st *store.Store, ch *checker.Checker, addr string, logger *slog.Logger) *Server {
	return &Server{store: st, checker: ch, logger: logger, addr: addr}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/subscribers", s.handleListSubscribers)
		r.Post("/subscribers", s.handleAddSubscriber)
		r.Delete("/subscribers", s.handleRemoveSubscriber)
		r.Get("/history", s.handleHistory)
		r.Get("/regions", s.handleRegions)
		r.Post("/check", s.handleTriggerCheck)
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("admin server listening", "addr", s.addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": zones.Regions()})
}

func (s *Server) handleListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubscribers(r.URL.Query().Get("region"))
	if err != nil {
		s.logger.Error("list subscribers failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list subscribers failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscribers": subs})
}

type subscriberRequest struct {
	Email  string `json:"email"`
	Region string `json:"region"`
}

func (s *Server) handleAddSubscriber(w http.ResponseWriter, r *http.Request) {
	var req subscriberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Region = strings.ToUpper(strings.TrimSpace(req.Region))
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if req.Region == "" {
		writeError(w, http.StatusBadRequest, "region is required")
		return
	}
	if !zones.Configured(req.Region) {
		writeError(w, http.StatusBadRequest, "region is not covered")
		return
	}

	if err := s.store.UpsertSubscriber(req.Email, req.Region); err != nil {
		s.logger.Error("add subscriber failed", "error", err)
		writeError(w, http.StatusInternalServerError, "add subscriber failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"email": req.Email, "region": req.Region})
}

func (s *Server) handleRemoveSubscriber(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	region := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("region")))
	if email == "" || region == "" {
		writeError(w, http.StatusBadRequest, "email and region are required")
		return
	}

	if err := s.store.DeactivateSubscriber(email, region); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	region := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("region")))
	if region == "" {
		writeError(w, http.StatusBadRequest, "region is required")
		return
	}

	hours := 24 * 30
	if h := r.URL.Query().Get("hours"); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid hours")
			return
		}
		hours = n
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	records, err := s.store.StormHistory(region, since)
	if err != nil {
		s.logger.Error("history query failed", "region", region, "error", err)
		writeError(w, http.StatusInternalServerError, "history query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"region": region, "storms": records})
}

// handleTriggerCheck kicks off a cycle in the background. The cycle is not
// tied to the request context: an admin disconnect must not cancel it.
func (s *Server) handleTriggerCheck(w http.ResponseWriter, _ *http.Request) {
	go s.checker.RunCycle(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "check started"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
