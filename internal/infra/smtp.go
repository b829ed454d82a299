package infra

import (
	"fmt"
	"net/smtp"

	"gastroplan/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for the station notification emails.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Send delivers a plain-text email through the circuit breaker: when the
// relay is down the breaker fast-fails and the job goes back to the queue.
func (m *Mailer) Send(to, subject, body string) error {
	send := func() error {
		e := email.NewEmail()
		e.From = m.user
		e.To = []string{to}
		e.Subject = subject
		e.Text = []byte(body)

		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		return e.Send(m.addr, auth)
	}
	if m.cb != nil {
		return m.cb.Execute(send)
	}
	return send()
}
