package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendInviteEmail(toEmail, toName, claimLink string) error
	SendMagicLinkEmail(toEmail, loginLink string) error
	SendDecisionEmail(toEmail, toName string, approved bool, reason string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	SiteURL   string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// SendInviteEmail sends the claim link for an imported alumnus
func (s *EmailServiceImpl) SendInviteEmail(toEmail, toName, claimLink string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("claimLink", claimLink).
			Msg("SMTP credentials not configured - invite email not sent. Use the link above for testing.")
		return nil
	}

	body := wrap(fmt.Sprintf(`
				<h2 style="color: #333;">You're invited to the alumni directory</h2>
				<p>Hello %s,</p>
				<p>Your classmates are already here. Claim your profile to appear in the directory and hear about upcoming events.</p>
				%s
				<p>If you were not expecting this invitation you can ignore this email.</p>`,
		html.EscapeString(toName), button(claimLink, "Claim your profile")))

	return s.sendHTMLEmail(toEmail, "You're invited to join the alumni directory", body)
}

// SendMagicLinkEmail sends a single-use passwordless login link
func (s *EmailServiceImpl) SendMagicLinkEmail(toEmail, loginLink string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("loginLink", loginLink).
			Msg("SMTP credentials not configured - login email not sent. Use the link above for testing.")
		return nil
	}

	body := wrap(fmt.Sprintf(`
				<h2 style="color: #333;">Sign in to the alumni directory</h2>
				<p>Use the button below to sign in. The link works once and expires shortly.</p>
				%s
				<p>If you did not request this email you can ignore it.</p>`,
		button(loginLink, "Sign in")))

	return s.sendHTMLEmail(toEmail, "Your sign-in link", body)
}

// SendDecisionEmail tells an account holder their submission was approved or rejected
func (s *EmailServiceImpl) SendDecisionEmail(toEmail, toName string, approved bool, reason string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Bool("approved", approved).
			Msg("SMTP credentials not configured - decision email not sent.")
		return nil
	}

	subject := "Your alumni profile was approved"
	text := "Your profile has been approved and is now visible in the directory."
	if !approved {
		subject = "Your alumni profile needs changes"
		text = "Your profile was not approved yet. Please review it and submit again."
		if reason != "" {
			text += " Reviewer note: " + html.EscapeString(reason)
		}
	}

	body := wrap(fmt.Sprintf(`
				<p>Hello %s,</p>
				<p>%s</p>
				%s`,
		html.EscapeString(toName), text, button(s.config.SiteURL+"/profile", "Open your profile")))

	return s.sendHTMLEmail(toEmail, subject, body)
}

func wrap(inner string) string {
	return `
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">` + inner + `
				<p>Best regards,<br>The Alumni Relations Team</p>
			</div>
		</body>
		</html>
	`
}

func button(link, label string) string {
	return fmt.Sprintf(`
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">%s</a>
				</div>
				<p style="font-size: 12px; color: #666;">%s</p>`,
		html.EscapeString(link), label, html.EscapeString(link))
}

// buildMessage renders headers in a stable order followed by the html body
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	message := ""
	for _, k := range keys {
		message += fmt.Sprintf("%s: %s\r\n", k, headers[k])
	}
	return []byte(message + "\r\n" + htmlBody)
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create SMTP client")
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}
