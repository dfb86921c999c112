package http

import (
	"encoding/json"
	"net/http"

	"scanner-backend/internal/repository"
)

// TokenHandler manages device tokens for scan alert pushes.
type TokenHandler struct {
	tokens *repository.TokenRepository
}

func NewTokenHandler(tokens *repository.TokenRepository) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// HandleRegister handles POST /api/tokens/register.
func (h *TokenHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}
	if req.Platform == "" {
		req.Platform = "android"
	}

	h.tokens.Register(req.Token, req.Platform)
	writeJSON(w, http.StatusOK, tokenResponse{
		Success: true,
		Message: "Token registered",
		Count:   h.tokens.Count(),
	})
}

// HandleUnregister handles POST /api/tokens/unregister.
func (h *TokenHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}

	h.tokens.Unregister(req.Token)
	writeJSON(w, http.StatusOK, tokenResponse{
		Success: true,
		Message: "Token unregistered",
		Count:   h.tokens.Count(),
	})
}
