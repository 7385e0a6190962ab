package service

import (
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"

	"parkvendor/internal/config"
)

// PaymentService wraps the hosted checkout flow used to collect exit charges
// online.
type PaymentService struct {
	successURL string
	cancelURL  string
}

func NewPaymentService(cfg config.Payments) *PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentService{
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateExitCheckoutSession creates a hosted checkout page for the exit
// total. Amount is in whole rupees.
func (s *PaymentService) CreateExitCheckoutSession(amount int, description, customerEmail string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("inr"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(int64(amount) * 100), // paise
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// RefundBySessionID refunds the payment captured through a checkout session.
func (s *PaymentService) RefundBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	_, err = refund.New(params)
	return err
}
