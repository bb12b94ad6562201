package mailing

import (
	"fmt"
	"html"
	"strconv"

	"foodgram/internal/utils"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

// Mailer is what the services depend on so tests can capture outgoing mail.
type Mailer interface {
	SendMail(toEmail string, subject string, body string) error
}

type smtpMailer struct {
	config MailConfig
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns nil when SMTP is not configured; callers skip mailing then.
func NewMailer() Mailer {
	cfg := LoadMailConfig()
	if cfg.SMTPHost == "" {
		return nil
	}
	return &smtpMailer{config: cfg}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func WelcomeMail(username string) (string, string) {
	subject := "Welcome to Foodgram"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>your account is ready. Start sharing recipes at <a href=\"%s\">%s</a>.</p>",
		html.EscapeString(username), utils.GetConfig("APP_URL"), utils.GetConfig("APP_URL"),
	)
	return subject, body
}
