// Package api exposes the operator HTTP surface: live websocket streaming
// of readings and shots, session statistics, club selection, and the
// Prometheus metrics endpoint. None of it is authoritative for
// segmentation; everything here observes or tunes the running monitor.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/banshee-data/openlaunch/internal/config"
	"github.com/banshee-data/openlaunch/internal/metrics"
	"github.com/banshee-data/openlaunch/internal/monitor"
	"github.com/banshee-data/openlaunch/internal/monitoring"
	"github.com/banshee-data/openlaunch/internal/session"
	"github.com/banshee-data/openlaunch/internal/shot"
)

// Server wires the HTTP handlers to the running pipeline.
type Server struct {
	cfg     *config.Config
	monitor *monitor.Monitor
	hub     *Hub
	session *session.Tracker

	upgrader websocket.Upgrader
}

// NewServer creates the operator HTTP surface.
func NewServer(cfg *config.Config, m *monitor.Monitor, hub *Hub, tracker *session.Tracker) *Server {
	return &Server{
		cfg:     cfg,
		monitor: m,
		hub:     hub,
		session: tracker,
		upgrader: websocket.Upgrader{
			// The UI is served from anywhere on the local network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeMux mounts all handlers.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/session/reset", s.handleSessionReset)
	mux.HandleFunc("/api/club", s.handleClub)
	mux.HandleFunc("/ws", s.handleWebsocket)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("api: failed to write response: %v", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"club":              s.monitor.Club().String(),
		"detect_club_speed": s.cfg.DetectClubSpeed,
		"sim_enabled":       s.cfg.SimEnabled,
	})
}

// handleConfig reports the effective tunables so an operator can confirm
// what thresholds a deployment is actually running with.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Summary())
}

func (s *Server) handleSessionReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.session.Reset()
	writeJSON(w, http.StatusOK, s.session.Summary())
}

// handleClub sets the configured club for subsequent shots.
func (s *Server) handleClub(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"club": s.monitor.Club().String()})
	case http.MethodPost:
		var body struct {
			Club string `json:"club"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		club, err := shot.ParseClub(body.Club)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.monitor.SetClub(club)
		writeJSON(w, http.StatusOK, map[string]string{"club": club.String()})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleWebsocket upgrades the connection and registers it with the hub.
// A reader goroutine drains (and discards) client frames so closes are
// noticed promptly.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("api: websocket upgrade failed: %v", err)
		return
	}
	s.hub.register <- conn
	go func() {
		defer func() { s.hub.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
