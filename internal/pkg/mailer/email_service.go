// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"schoolhub-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTenantWelcome(toEmail, schoolName, slug string) error
}

// sender is the part of *gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail, frontendURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (s *emailService) SendTenantWelcome(toEmail, schoolName, slug string) error {
	m := buildWelcomeMessage(s.senderEmail, toEmail, schoolName, fmt.Sprintf("%s/%s", s.frontendURL, slug))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send welcome email", map[string]interface{}{
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Welcome email sent", map[string]interface{}{"to": toEmail})
	return nil
}

func buildWelcomeMessage(from, to, schoolName, dashboardURL string) *gomail.Message {
	m := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Welcome to SchoolHub, %s", schoolName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s is ready</h2>
			<p>Your school workspace has been created. You can finish setting it up from the dashboard:</p>
			<a href="%s" style="background-color: #3B82F6; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open dashboard</a>
			<p>Branding and features can be changed at any time under Settings.</p>
		</div>
	`, html.EscapeString(schoolName), dashboardURL)

	m.SetBody("text/html", body)
	return m
}
