package ports

import "context"

// MailJob is one outbound email.
type MailJob struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a single email synchronously.
type Mailer interface {
	Send(ctx context.Context, job MailJob) error
}

// MailDispatcher enqueues email for best-effort asynchronous delivery.
// Enqueue must not block the caller beyond buffer capacity and delivery
// failure must never fail the operation that queued the mail.
type MailDispatcher interface {
	Enqueue(job MailJob)
}
