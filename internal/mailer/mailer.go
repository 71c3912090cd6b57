package mailer

// Mailer is the outbound email contract. Sending is synchronous: a
// failure surfaces to the caller of the enclosing request.
type Mailer interface {
	Send(to, subject, body string) error
}
