// Package email manda el aviso de bienvenida al crear una cuenta.
// Es best-effort: una falla SMTP se loguea y el login sigue.
package email

import (
	"context"
	"fmt"

	mail "github.com/go-mail/mail"
)

// Config es la configuración SMTP del mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer implementa account.Mailer sobre SMTP.
type Mailer struct {
	cfg Config
}

// New crea el Mailer. Retorna nil si no hay host configurado (mailer
// deshabilitado).
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &Mailer{cfg: cfg}
}

// SendWelcome manda el aviso de cuenta creada.
func (m *Mailer) SendWelcome(ctx context.Context, to, fullName string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Welcome")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour account was created from your first social login.\n", fullName))

	d := mail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("email: send welcome: %w", err)
	}
	return nil
}
