package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"parkvendor/internal/service"
)

// PaymentWebhookHandler marks checkout sessions as paid once the payment
// provider confirms them. Signature verification happens before anything
// touches the database.
type PaymentWebhookHandler struct {
	webhookSecret string
	bookings      *service.BookingService
}

func NewPaymentWebhookHandler(webhookSecret string, bookings *service.BookingService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{webhookSecret: webhookSecret, bookings: bookings}
}

func (h *PaymentWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.webhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			log.Printf("No session ID in checkout.session.completed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.bookings.MarkPaymentPaid(sess.ID); err != nil {
			log.Printf("Error marking session %s paid: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Printf("Unhandled webhook event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
