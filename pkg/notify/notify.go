package notify

import "context"

// Message — письмо для отправки кандидату или подписчику рассылки.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender abstracts the outbound email transport. Delivery is always
// best-effort: callers log failures and never propagate them into the
// request that triggered the notification.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
