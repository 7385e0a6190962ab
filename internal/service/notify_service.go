package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"parkvendor/internal/config"
)

// NotifyService sends email via SendGrid and SMS via Twilio. Credentials come
// from the injected config rather than being read from the environment at
// call time.
type NotifyService struct {
	cfg config.Notifications
}

func NewNotifyService(cfg config.Notifications) *NotifyService {
	return &NotifyService{cfg: cfg}
}

func (s *NotifyService) SendEmail(toEmail, toName, subject, plainBody, htmlBody string) error {
	if s.cfg.SendGridAPIKey == "" || s.cfg.SendGridFromEmail == "" {
		log.Println("WARNING: SendGrid is not configured. Email will not be sent.")
		return fmt.Errorf("sendgrid not configured")
	}

	from := mail.NewEmail(s.cfg.SendGridFromName, s.cfg.SendGridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	log.Printf("Email sent to %s (subject: %s)", toEmail, subject)
	return nil
}

func (s *NotifyService) SendSMS(toNumber, messageBody string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		log.Println("WARNING: Twilio is not configured. SMS will not be sent.")
		return fmt.Errorf("twilio not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not E.164; the SMS may fail.", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.cfg.TwilioAccountSID,
		Password:   s.cfg.TwilioAuthToken,
		AccountSid: s.cfg.TwilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", toNumber, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s. Message SID: %s", toNumber, *resp.Sid)
	}
	return nil
}
