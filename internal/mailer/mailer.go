// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mailer sends transactional emails rendered from embedded HTML
// templates.
//
// [SMTPSender] delivers through an SMTP relay with
// github.com/jordan-wright/email. [LogSender] only logs the message and is
// used when no relay is configured.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/jordan-wright/email"
)

//go:generate mockgen -source=mailer.go -destination=../mock/mailer_mock.go -package=mock

const (
	templateResetPassword = "reset-password.html"
	subjectResetPassword  = "Reset your password"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PasswordReset is the content of a password reset email.
type PasswordReset struct {
	Username  string
	ActionURL string
	// UserAgent identifies the client that requested the reset.
	UserAgent string
	ExpiresIn time.Duration
}

// Sender sends transactional emails.
type Sender interface {
	SendPasswordReset(ctx context.Context, to string, data PasswordReset) error
}

// NewSender returns an [SMTPSender], or a [LogSender] when cfg has no host.
func NewSender(cfg config.Mail, logger *logger.Logger) (Sender, error) {
	if cfg.Host == "" {
		logger.Warn().Msg("mail host is not configured, emails will only be logged")
		return NewLogSender(logger), nil
	}
	return NewSMTPSender(cfg, logger)
}

// SMTPSender renders emails and delivers them through an SMTP relay.
type SMTPSender struct {
	cfg       config.Mail
	templates *template.Template
	deliver   func(*email.Email) error

	logger *logger.Logger
}

// NewSMTPSender parses the embedded templates and returns a sender for cfg.
func NewSMTPSender(cfg config.Mail, logger *logger.Logger) (*SMTPSender, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &SMTPSender{cfg: cfg, templates: templates, logger: logger}
	s.deliver = s.send
	return s, nil
}

func (s *SMTPSender) SendPasswordReset(ctx context.Context, to string, data PasswordReset) error {
	body, err := render(s.templates, templateResetPassword, newResetPasswordView(data))
	if err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{to}
	e.Subject = subjectResetPassword
	e.HTML = body

	if err = s.deliver(e); err != nil {
		return fmt.Errorf("error sending %q to %s: %w", e.Subject, to, err)
	}

	logger.FromContext(ctx).Info().Str("func", "*SMTPSender.SendPasswordReset").Str("to", to).Msg("password reset email sent")
	return nil
}

func (s *SMTPSender) send(e *email.Email) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}

	if s.cfg.TLS || s.cfg.Port == 465 {
		return e.SendWithTLS(addr, auth, tlsConfig)
	}
	if s.cfg.StartTLS {
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}

// LogSender logs emails instead of sending them.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to string, data PasswordReset) error {
	s.logger.Info().
		Str("to", to).
		Str("subject", subjectResetPassword).
		Str("action_url", data.ActionURL).
		Str("user_agent", data.UserAgent).
		Msg("email not sent, mail host is not configured")
	return nil
}

// resetPasswordView is the data of the reset-password template.
type resetPasswordView struct {
	Username  string
	ActionURL string
	UserAgent string
	ExpiresIn string
}

func newResetPasswordView(data PasswordReset) resetPasswordView {
	return resetPasswordView{
		Username:  data.Username,
		ActionURL: data.ActionURL,
		UserAgent: data.UserAgent,
		ExpiresIn: humanizeDuration(data.ExpiresIn),
	}
}

func parseTemplates() (*template.Template, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing email templates: %w", err)
	}
	return templates, nil
}

func render(templates *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("error rendering email template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// humanizeDuration formats whole minutes as "10 minutes".
func humanizeDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	switch {
	case d < time.Minute:
		return d.String()
	case minutes == 1:
		return "1 minute"
	}
	return strconv.Itoa(minutes) + " minutes"
}
