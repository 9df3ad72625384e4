package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/farxc/folha-inspecao/internal/data"
	"github.com/farxc/folha-inspecao/internal/env"
	"github.com/farxc/folha-inspecao/internal/logger"
	"gopkg.in/gomail.v2"
)

const (
	ExportSubject = "Registros de Clientes"
	ExportBody    = "Segue em anexo a planilha com os dados dos clientes cadastrados."
)

// Config is the relay configuration. It is read from the environment and
// never from request input.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// SSL selects implicit TLS. Without it the session is upgraded with
	// STARTTLS when the relay offers it.
	SSL bool
}

// ConfigFromEnv reads the SMTP_* variables. SMTP_SSL defaults to true on
// port 465.
func ConfigFromEnv() Config {
	port := env.GetInt("SMTP_PORT", 465)
	return Config{
		Host:     env.GetString("SMTP_HOST", "smtp.gmail.com"),
		Port:     port,
		Username: env.GetString("SMTP_USERNAME", ""),
		Password: env.GetString("SMTP_PASSWORD", ""),
		From:     env.GetString("SMTP_FROM", ""),
		SSL:      env.GetBool("SMTP_SSL", port == 465),
	}
}

type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages through an authenticated SMTP session.
type SMTPSender struct {
	from   string
	ssl    bool
	dial   func() (gomail.SendCloser, error)
	logger *logger.Logger
}

func NewSMTPSender(cfg Config, appLogger *logger.Logger) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{from: from, ssl: d.SSL, dial: d.Dial, logger: appLogger}
}

// ValidateRecipient parses a single address.
func ValidateRecipient(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("empty recipient")
	}
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", addr, err)
	}
	return parsed.Address, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	const component = "Mailer"

	if err := ctx.Err(); err != nil {
		return &data.TransportError{Op: "send", Err: err}
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, path := range msg.Attachments {
		m.Attach(path, gomail.Rename(filepath.Base(path)))
	}

	sc, err := s.dial()
	if err != nil {
		s.logger.Error(component, "Failed to dial relay: to=%s error=%v", msg.To, err)
		return &data.TransportError{Op: "dial", Err: err}
	}
	defer sc.Close()

	if err := gomail.Send(sc, m); err != nil {
		s.logger.Error(component, "Failed to send message: to=%s error=%v", msg.To, err)
		return &data.TransportError{Op: "send", Err: err}
	}

	s.logger.Info(component, "Message sent: to=%s attachments=%d", msg.To, len(msg.Attachments))
	return nil
}

// ExportMessage builds the message that carries a client export.
func ExportMessage(to, attachment string) Message {
	return Message{To: to, Subject: ExportSubject, Body: ExportBody, Attachments: []string{attachment}}
}
