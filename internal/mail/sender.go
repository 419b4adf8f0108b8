package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is the fully rendered artifact handed to a Sender. AudioPath is
// optional; when set, the file is attached.
type Message struct {
	Subject   string
	HTMLBody  string
	AudioPath string
}

// Sender delivers a rendered message. The dispatcher only cares about
// success or failure.
type Sender interface {
	Send(msg Message) error
}

// SMTPConfig is the endpoint and credential bundle for mail delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Validate checks that all required fields are set.
func (c *SMTPConfig) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("SMTP host is required")
	case c.From == "":
		return fmt.Errorf("sender address is required")
	case c.To == "":
		return fmt.Errorf("recipient address is required")
	}
	if c.Port == 0 {
		c.Port = 587
	}
	return nil
}

// SMTPSender implements Sender over a plain SMTP endpoint.
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender creates a sender for the given endpoint.
func NewSMTPSender(config SMTPConfig) (*SMTPSender, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SMTPSender{config: config}, nil
}

// Send transmits the message, attaching the audio file when present.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", s.config.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	if msg.AudioPath != "" {
		m.Attach(msg.AudioPath)
	}

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
