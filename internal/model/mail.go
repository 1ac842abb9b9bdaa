package model

import "context"

// Mail is an outbound message handed to the mail collaborator.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// MailDispatcher accepts mail for asynchronous delivery. Dispatch must not block.
type MailDispatcher interface {
	Dispatch(mail Mail)
}

// MailSender delivers a single message.
type MailSender interface {
	Send(ctx context.Context, mail Mail) error
}
