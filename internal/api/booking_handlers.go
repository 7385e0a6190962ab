package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parkvendor/internal/auth"
	"parkvendor/internal/entities"
	apierrors "parkvendor/internal/errors"
	"parkvendor/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
	Watcher *service.DurationWatcher
}

func NewBookingHandler(svc *service.BookingService, watcher *service.DurationWatcher) *BookingHandler {
	return &BookingHandler{Service: svc, Watcher: watcher}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	bookings, err := h.Service.List(vendorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := auth.VendorID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp, err := h.Service.Create(vendorID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(vendorID, id int) error {
		return h.Service.Approve(vendorID, id)
	}, "Booking approved")
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(vendorID, id int) error {
		return h.Service.Cancel(vendorID, id)
	}, "Booking cancelled")
}

func (h *BookingHandler) AllowParking(w http.ResponseWriter, r *http.Request) {
	vendorID, id, ok := h.vendorAndID(w, r)
	if !ok {
		return
	}
	var req entities.AllowParkingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.AllowParking(vendorID, id, req.OTP); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle parked"})
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	vendorID, id, ok := h.vendorAndID(w, r)
	if !ok {
		return
	}
	quote, err := h.Service.Quote(vendorID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *BookingHandler) Exit(w http.ResponseWriter, r *http.Request) {
	vendorID, id, ok := h.vendorAndID(w, r)
	if !ok {
		return
	}
	var req entities.ExitRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}
	quote, err := h.Service.Exit(vendorID, id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Duration serves the watcher's live readout for a parked booking.
func (h *BookingHandler) Duration(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.vendorAndID(w, r)
	if !ok {
		return
	}
	d, tracked := h.Watcher.Duration(id)
	if !tracked {
		writeJSON(w, http.StatusOK, map[string]any{"booking_id": id, "duration": "N/A", "parked": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking_id": id, "duration": d, "parked": true})
}

func (h *BookingHandler) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	vendorID, id, ok := h.vendorAndID(w, r)
	if !ok {
		return
	}
	st, err := h.Service.SubscriptionStatus(vendorID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if st == nil {
		http.Error(w, "Not a subscription booking", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, fn func(vendorID, id int) error, message string) {
	vendorID, id, ok := h.vendorAndID(w, r)
	if !ok {
		return
	}
	if err := fn(vendorID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (h *BookingHandler) vendorAndID(w http.ResponseWriter, r *http.Request) (vendorID, id int, ok bool) {
	vendorID, authed := auth.VendorID(r.Context())
	if !authed {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, 0, false
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return 0, 0, false
	}
	return vendorID, id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	httpErr := apierrors.FromServiceError(err)
	if httpErr.Code == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}
	http.Error(w, httpErr.Message, httpErr.Code)
}
