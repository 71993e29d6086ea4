// Package notification turns committed order events into messages for the
// back-office staff.
package notification

import "context"

// Message is a rendered notification
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
