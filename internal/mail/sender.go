// Package mail renders the outbound HTML emails and delivers them over SMTP.
package mail

import (
	"context"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/clinic-admin/internal/config"
)

type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender returns an SMTP sender, or a LogSender when SMTP_HOST is unset.
func NewSender(cfg *config.Config) Sender {
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST not set, emails will be logged")
		return LogSender{}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.Printf("could not send email to %s: %v", to, err)
		return err
	}
	return nil
}

// LogSender prints emails instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, html string) error {
	log.Printf("mail to=%s subject=%q\n%s", to, subject, html)
	return nil
}

// Deliver sends a rendered message through s.
func Deliver(ctx context.Context, s Sender, m Message) error {
	return s.Send(ctx, m.To, m.Subject, m.HTML)
}
