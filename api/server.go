package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/partylab/guessroom/game/controller"
	"github.com/partylab/guessroom/transport/websocket"
)

// Server is the HTTP server wrapping the introspection API and the
// WebSocket endpoint.
type Server struct {
	ctrl    *controller.Controller
	hub     *websocket.Hub
	router  *mux.Router
	baseURL string
}

// NewServer creates an API server. baseURL is the externally reachable root
// used inside invite links (e.g. "http://localhost:8080").
func NewServer(ctrl *controller.Controller, hub *websocket.Hub, baseURL string) *Server {
	s := &Server{
		ctrl:    ctrl,
		hub:     hub,
		router:  mux.NewRouter(),
		baseURL: baseURL,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/invite.png", s.handleInviteQR).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ctrl.ListSessions())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.ctrl.DescribeSession(sessionID)
	if err != nil {
		if errors.Is(err, controller.ErrNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// handleInviteQR serves a QR code image of the room's join link. Rooms are
// created on first join, so the link works whether or not the room exists
// yet.
func (s *Server) handleInviteQR(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing session id")
		return
	}

	joinURL := fmt.Sprintf("%s/game/%s", s.baseURL, sessionID)

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode QR code: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}
