package api

import (
	"encoding/json"
	"log"
	"net/http"

	"parkvendor/internal/service"
)

type AuthHandler struct {
	Service service.VendorAuthService
}

func NewAuthHandler(svc service.VendorAuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	token, err := h.Service.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Register(req.Name, req.Email, req.Phone, req.Password); err != nil {
		log.Printf("Error registering vendor: %v", err)
		http.Error(w, "Could not register vendor", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Vendor registered"})
}
