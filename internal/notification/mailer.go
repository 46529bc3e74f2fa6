package notification

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iyhunko/shop-with-sqs/internal/config"
	"github.com/wneessen/go-mail"
)

// Mailer delivers a rendered mail.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer builds a client for conf. STARTTLS is required.
func NewSMTPMailer(conf config.Mail) (*SMTPMailer, error) {
	port, err := strconv.Atoi(conf.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp port %q: %w", conf.Port, err)
	}

	client, err := mail.NewClient(conf.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(conf.User),
		mail.WithPassword(conf.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: conf.User}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, m Mail) error {
	msg, err := buildMessage(s.from, m)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}

func buildMessage(from string, m Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTMLBody)
	return msg, nil
}
