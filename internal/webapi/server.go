package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"gameshelf/internal/config"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/refresh"
)

// Server exposes the read-only collection API. A nil *Server is a valid
// no-op, returned when no bind address is configured.
type Server struct {
	bind     string
	cooldown time.Duration
	logger   *slog.Logger
	store    *library.Store
	refresh  *refresh.Manager

	listener net.Listener
	server   *http.Server
}

// New builds the API server. Returns nil when cfg has no bind address.
func New(cfg *config.Config, store *library.Store, manager *refresh.Manager, logger *slog.Logger) *Server {
	if cfg == nil || store == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:     bind,
		cooldown: cfg.Cooldown(),
		logger:   logging.NewComponentLogger(logger, "webapi"),
		store:    store,
		refresh:  manager,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/collection", srv.handleCollection)
	mux.HandleFunc("/api/wishlist", srv.handleWishlist)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, draining in-flight requests.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listener address, empty before Start.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	if s == nil || s.server == nil {
		return http.NotFoundHandler()
	}
	return s.server.Handler
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	s.handleRows(w, r, s.store.CollectionRows)
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	s.handleRows(w, r, s.store.WishlistRows)
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]library.CollectionRow, error)) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rows, err := fetch(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	field, descending := parseSort(query.Get("sort"), query.Get("order"))
	sortRows(rows, field, descending)

	items := make([]GameRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromCollectionRow(row))
	}
	s.writeJSON(w, http.StatusOK, listResponse{Items: items})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	states, err := s.store.EntryStates(r.Context(), time.Now().UTC(), s.cooldown)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	counts := make(map[library.EntryState]int, len(states))
	for _, state := range states {
		counts[state.State]++
	}
	breakdown := make([]StateCount, 0, len(library.States()))
	for _, state := range library.States() {
		breakdown = append(breakdown, StateCount{State: string(state), Count: counts[state]})
	}

	payload := StatusResponse{
		States:       breakdown,
		DatabasePath: s.store.Path(),
	}
	if s.refresh != nil {
		summary := s.refresh.Status()
		payload.RefreshRunning = summary.Running
		payload.LastError = summary.LastError
		if summary.LastReport != nil {
			report := summary.LastReport
			payload.LastCycle = &CycleView{
				CycleID:   report.CycleID,
				Started:   report.Started.Format(time.RFC3339),
				Duration:  report.Duration.Round(time.Millisecond).String(),
				Attempted: report.Attempted,
				Recorded:  report.Recorded,
				Empty:     report.Empty,
				Failed:    report.Failed,
			}
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	health, err := s.store.CheckHealth(r.Context())
	if err != nil || !health.IntegrityCheck {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
