package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"instaclone-backend/config"
	"instaclone-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

type EmailService struct {
	smtpHost    string
	smtpPort    int
	username    string
	password    string
	frontendURL string
}

// NewEmailService returns nil when SMTP is not configured.
func NewEmailService(cfg config.Config) *EmailService {
	if !cfg.MailEnabled() {
		return nil
	}
	return &EmailService{
		smtpHost:    cfg.SMTPHost,
		smtpPort:    cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		frontendURL: cfg.FrontendURL,
	}
}

// SendWelcomeEmail greets a new member without blocking the caller.
func (s *EmailService) SendWelcomeEmail(email, username string) {
	subject := "Welcome to Instaclone"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>your account is ready. Share your first picture at <a href="%s">%s</a>.</p>`,
		username, s.frontendURL, s.frontendURL)

	s.sendEmailAsync(email, subject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("async email failed", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	util.Logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
