// Package mail delivers transactional email through SendGrid.
package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Sender interface {
	SendLoginCode(ctx context.Context, to, code string) error
}

type SendGrid struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGrid) SendLoginCode(ctx context.Context, to, code string) error {
	from := sgmail.NewEmail(s.fromName, s.fromEmail)
	recipient := sgmail.NewEmail("", to)
	subject := "Seu código de acesso"
	plain := fmt.Sprintf("Seu código de acesso é: %s", code)
	html := fmt.Sprintf("<p>Seu código de acesso é: <strong>%s</strong></p>", code)

	message := sgmail.NewSingleEmail(from, subject, recipient, plain, html)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send login code: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("send login code: sendgrid status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}
