package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/keiji/reeldaily/internal/constants"
	"github.com/keiji/reeldaily/internal/domain"
	"github.com/keiji/reeldaily/pkg/errors"
	"go.uber.org/zap"
)

// SelectionState is the slice of the selection service the HTTP surface
// needs; faked in tests.
type SelectionState interface {
	Directors() []*domain.Director
	Chosen() []string
	Completed() bool
	Toggle(directorID string) bool
	CompleteOnboarding(ctx context.Context) bool
}

// Engine is the recommendation surface.
type Engine interface {
	PickToday(ctx context.Context) *domain.Film
	Reroll(ctx context.Context) *domain.Film
}

// Server stands in for the in-app UI: onboarding, today's pick and the
// deep-link hand-off to the external film-logging site.
type Server struct {
	httpServer *http.Server
	selection  SelectionState
	engine     Engine
	hub        *Hub
	logger     *zap.Logger
}

func NewServer(addr string, sel SelectionState, engine Engine, hub *Hub, logger *zap.Logger) *Server {
	s := &Server{
		selection: sel,
		engine:    engine,
		hub:       hub,
		logger:    logger,
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: constants.ServerConfig.ReadHeaderTimeout,
	}

	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/recommendation", s.handleDeepLink)

	r.Route("/api", func(r chi.Router) {
		r.Get("/directors", s.handleDirectors)
		r.Get("/selection", s.handleSelection)
		r.Post("/selection/toggle", s.handleToggle)
		r.Post("/selection/complete", s.handleComplete)
		r.Get("/today", s.handleToday)
		r.Post("/today/reroll", s.handleReroll)
	})

	if s.hub != nil {
		r.Get("/ws", s.hub.ServeWS)
	}

	return r
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDirectors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"directors": s.selection.Directors(),
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	s.writeSelectionState(w)
}

type toggleRequest struct {
	DirectorID string `json:"directorId"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DirectorID == "" {
		verr := errors.NewValidationError("directorId is required", "directorId")
		writeJSON(w, verr.StatusCode, map[string]string{
			"error": verr.Message,
			"code":  verr.Code,
			"field": verr.Field,
		})
		return
	}

	s.selection.Toggle(req.DirectorID)
	s.writeSelectionState(w)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.selection.CompleteOnboarding(r.Context())
	s.writeSelectionState(w)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	film := s.engine.PickToday(r.Context())
	if film == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, film)
}

func (s *Server) handleReroll(w http.ResponseWriter, r *http.Request) {
	film := s.engine.Reroll(r.Context())
	if film == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, film)
}

// handleDeepLink forwards the carried film-logging URL to an external
// browser. A malformed URL is silently ignored.
func (s *Server) handleDeepLink(w http.ResponseWriter, r *http.Request) {
	movieURL := r.URL.Query().Get(constants.DeepLink.Param)
	if !domain.IsExternalURL(movieURL) {
		s.logger.Debug("Ignoring malformed deep link", zap.String("movie_url", movieURL))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.Redirect(w, r, movieURL, http.StatusFound)
}

func (s *Server) writeSelectionState(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"chosen":    s.selection.Chosen(),
		"completed": s.selection.Completed(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
