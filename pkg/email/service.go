package email

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// Service handles email sending
type Service struct {
	fromEmail    string
	fromName     string
	baseURL      string
	sendGridKey  string
	sendGridHost string
	useSendGrid  bool
}

// NewService creates a new email service
// If sendGridAPIKey is provided, emails will be sent via SendGrid
// Otherwise, emails will be logged to console (development mode)
func NewService(fromEmail, fromName, baseURL, sendGridAPIKey string) *Service {
	useSendGrid := sendGridAPIKey != ""
	if useSendGrid {
		log.Printf("✅ Email service initialized with SendGrid")
	} else {
		log.Printf("⚠️  Email service in console-only mode (set SENDGRID_API_KEY for production)")
	}

	return &Service{
		fromEmail:   fromEmail,
		fromName:    fromName,
		baseURL:     baseURL,
		sendGridKey: sendGridAPIKey,
		useSendGrid: useSendGrid,
	}
}

// WithSendGridHost points the service at a different SendGrid API host (EU data residency).
func (s *Service) WithSendGridHost(host string) *Service {
	s.sendGridHost = host
	return s
}

// BacsInvoice describes a BACS invoice that was just issued to a new customer.
type BacsInvoice struct {
	ContactEmail        string
	ContactName         string
	CompanyName         string
	InvoiceID           string
	PurchaseOrderNumber string
	AmountDisplay       string
}

// SendBacsInvoiceEmail tells the contact that an invoice was raised for their registration
func (s *Service) SendBacsInvoiceEmail(ctx context.Context, inv BacsInvoice) error {
	subject, html, plainText := buildBacsInvoiceEmail(inv, s.baseURL)

	if s.useSendGrid {
		return s.sendViaSendGrid(ctx, inv.ContactEmail, inv.ContactName, subject, html, plainText)
	}

	return s.logEmailToConsole(inv.ContactEmail, inv.ContactName, subject, s.baseURL)
}

// MotoPayment describes a card payment taken over the phone.
type MotoPayment struct {
	ContactEmail string
	ContactName  string
	CompanyName  string
	InvoiceID    string
}

// SendPaymentConfirmationEmail confirms a MOTO payment to the contact
func (s *Service) SendPaymentConfirmationEmail(ctx context.Context, p MotoPayment) error {
	subject, html, plainText := buildPaymentConfirmationEmail(p, s.baseURL)

	if s.useSendGrid {
		return s.sendViaSendGrid(ctx, p.ContactEmail, p.ContactName, subject, html, plainText)
	}

	return s.logEmailToConsole(p.ContactEmail, p.ContactName, subject, s.baseURL)
}

// SendRawEmail sends an email with pre-built subject, HTML body, and plain text body
func (s *Service) SendRawEmail(ctx context.Context, toEmail, toName, subject, htmlBody, plainTextBody string) error {
	if s.useSendGrid {
		return s.sendViaSendGrid(ctx, toEmail, toName, subject, htmlBody, plainTextBody)
	}

	log.Printf("📧 [EMAIL] %s", subject)
	log.Printf("   To: %s <%s>", toName, toEmail)
	log.Printf("   From: %s <%s>", s.fromName, s.fromEmail)
	log.Printf("   ⚠️  Email NOT sent (development mode)")
	return nil
}

// sendViaSendGrid sends email using SendGrid API
func (s *Service) sendViaSendGrid(ctx context.Context, toEmail, toName, subject, htmlBody, plainTextBody string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	message := mail.NewSingleEmail(from, subject, to, plainTextBody, htmlBody)

	request := sendgrid.GetRequest(s.sendGridKey, sendEndpoint, s.sendGridHost)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		log.Printf("❌ SendGrid error: %v", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		log.Printf("❌ SendGrid returned error status %d: %s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}

	log.Printf("✅ Email sent successfully to %s (SendGrid status: %d)", toEmail, response.StatusCode)
	return nil
}

// logEmailToConsole logs email details to console (development mode)
func (s *Service) logEmailToConsole(toEmail, toName, subject, actionURL string) error {
	log.Printf("📧 [EMAIL] %s", subject)
	log.Printf("   To: %s <%s>", toName, toEmail)
	log.Printf("   From: %s <%s>", s.fromName, s.fromEmail)
	log.Printf("   Action URL: %s", actionURL)
	log.Printf("   ---")
	log.Printf("   ⚠️  Email NOT sent (development mode)")
	log.Printf("   Set SENDGRID_API_KEY environment variable to enable email sending")
	log.Printf("   ---")
	return nil
}
