package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/petitchef/petit-chef/auth"
	"github.com/petitchef/petit-chef/game/config"
	"github.com/petitchef/petit-chef/game/inventory"
	"github.com/petitchef/petit-chef/game/ledger"
	"github.com/petitchef/petit-chef/game/session"
	"github.com/petitchef/petit-chef/storage"
	"github.com/petitchef/petit-chef/transport/websocket"
)

type contextKey string

const playerIDKey contextKey = "playerID"

// Server is the REST API server.
type Server struct {
	store    *storage.Store
	players  *ledger.Ledger
	stock    *inventory.Ledger
	registry *session.Registry
	tokens   *auth.Manager
	hub      *websocket.Hub
	cfg      *config.Config
	router   *mux.Router
}

// NewServer creates the API server and configures its routes.
func NewServer(store *storage.Store, players *ledger.Ledger, stock *inventory.Ledger,
	registry *session.Registry, tokens *auth.Manager, hub *websocket.Hub, cfg *config.Config) *Server {

	s := &Server{
		store:    store,
		players:  players,
		stock:    stock,
		registry: registry,
		tokens:   tokens,
		hub:      hub,
		cfg:      cfg,
		router:   mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Accounts
	api.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.Handle("/auth/me", s.authenticated(s.handleMe)).Methods("GET")

	// Catalog and stock
	api.Handle("/ingredients", s.authenticated(s.handleListIngredients)).Methods("GET")
	api.Handle("/ingredients/purchase", s.authenticated(s.handlePurchase)).Methods("POST")
	api.Handle("/recipes", s.authenticated(s.handleListRecipes)).Methods("GET")

	// Laboratory
	api.Handle("/lab/experiment", s.authenticated(s.handleExperiment)).Methods("POST")
	api.Handle("/lab/recipes", s.authenticated(s.handleDiscoveredRecipes)).Methods("GET")

	// Reporting and service status
	api.Handle("/transactions", s.authenticated(s.handleTransactions)).Methods("GET")
	api.Handle("/service/status", s.authenticated(s.handleServiceStatus)).Methods("GET")

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Realtime gateway
	s.router.HandleFunc("/ws", s.hub.ServeWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// authenticated wraps a handler with bearer-token verification and stashes
// the player id in the request context.
func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		playerID, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), playerIDKey, playerID)))
	})
}

func playerID(r *http.Request) string {
	id, _ := r.Context().Value(playerIDKey).(string)
	return id
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
