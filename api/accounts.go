package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petitchef/petit-chef/auth"
	"github.com/petitchef/petit-chef/game/ledger"
	"github.com/petitchef/petit-chef/telemetry"
)

type registerRequest struct {
	RestaurantName string `json:"restaurant_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string         `json:"token"`
	Player *ledger.Player `json:"player"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.RestaurantName = strings.TrimSpace(req.RestaurantName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.RestaurantName == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "Restaurant name and a valid email are required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if _, err := s.store.PlayerByEmail(req.Email); err == nil {
		respondError(w, http.StatusConflict, "An account already exists for this email")
		return
	} else if !errors.Is(err, ledger.ErrPlayerNotFound) {
		telemetry.Errorf("api: register lookup: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		telemetry.Errorf("api: hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	player := &ledger.Player{
		ID:             uuid.NewString(),
		RestaurantName: req.RestaurantName,
		Email:          req.Email,
		PasswordHash:   hash,
		Satisfaction:   s.cfg.InitialSatisfaction,
		Treasury:       s.cfg.InitialTreasury,
		Stars:          s.cfg.InitialStars,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreatePlayer(player); err != nil {
		telemetry.Errorf("api: create player: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := s.tokens.Issue(player.ID)
	if err != nil {
		telemetry.Errorf("api: issue token: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, Player: player})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	player, err := s.store.PlayerByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, ledger.ErrPlayerNotFound) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		telemetry.Errorf("api: login lookup: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !auth.CheckPassword(player.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(player.ID)
	if err != nil {
		telemetry.Errorf("api: issue token: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, Player: player})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.Get(playerID(r))
	if err != nil {
		respondError(w, http.StatusNotFound, "Player not found")
		return
	}
	respondJSON(w, http.StatusOK, player)
}
