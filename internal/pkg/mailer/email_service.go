package mailer

import (
	"fmt"
	"html"

	"ai-admissions-be/internal/entity"
	"ai-admissions-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendContactNotification(toEmail string, contact *entity.ContactRecord) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderEmail string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		logger:      log,
	}
}

func (s *emailService) SendContactNotification(toEmail string, contact *entity.ContactRecord) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", ContactSubject(contact))
	m.SetHeader("Reply-To", contact.Email)
	m.SetBody("text/html", ContactBody(contact))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send contact notification", map[string]interface{}{
			"to":         toEmail,
			"contact_id": contact.Id,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Contact notification sent", map[string]interface{}{
		"to":         toEmail,
		"contact_id": contact.Id,
	})
	return nil
}

func ContactSubject(c *entity.ContactRecord) string {
	return fmt.Sprintf("Nouveau contact : %s (%s)", c.Name, c.Program)
}

// ContactBody renders the advisor email. Visitor input is HTML-escaped.
func ContactBody(c *entity.ContactRecord) string {
	note := "-"
	if c.Note != "" {
		note = html.EscapeString(c.Note)
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Nouvelle demande de contact</h2>
			<p>Un visiteur a laissé ses coordonnées via l'assistant.</p>
			<table style="border-collapse: collapse;">
				<tr><td><b>Nom</b></td><td>%s</td></tr>
				<tr><td><b>Email</b></td><td>%s</td></tr>
				<tr><td><b>Téléphone</b></td><td>%s</td></tr>
				<tr><td><b>Programme</b></td><td>%s</td></tr>
				<tr><td><b>Message</b></td><td>%s</td></tr>
			</table>
			<p style="color: #888;">Session %s, contact n° %d</p>
		</div>
	`,
		html.EscapeString(c.Name),
		html.EscapeString(c.Email),
		html.EscapeString(c.Phone),
		html.EscapeString(c.Program),
		note,
		html.EscapeString(c.SessionId),
		c.Id,
	)
}
