package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"parkvendor/internal/auth"
	"parkvendor/internal/entities"
	"parkvendor/internal/service"
)

type RateHandler struct {
	Service *service.RateService
}

func NewRateHandler(svc *service.RateService) *RateHandler {
	return &RateHandler{Service: svc}
}

func (h *RateHandler) List(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	charges, err := h.Service.ListCharges(vendorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, charges)
}

func (h *RateHandler) Put(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.ChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	charge, err := h.Service.PutCharge(vendorID, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, charge)
}

func (h *RateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	vars := mux.Vars(r)
	if err := h.Service.DeleteCharge(vendorID, vars["category"], vars["tier"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Charge removed"})
}

func (h *RateHandler) Fees(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.GetFeeConfig()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
