package core

import (
	"net/mail"
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Subject string
		Body    string // text/plain
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return m.Body != ""
}

func (m *EmailMessage) Recipients() []string {
	rcpts := make([]string, 0, len(m.To)+len(m.Cc))
	for _, addr := range m.To {
		rcpts = append(rcpts, addr.Address)
	}
	for _, addr := range m.Cc {
		rcpts = append(rcpts, addr.Address)
	}
	return rcpts
}
