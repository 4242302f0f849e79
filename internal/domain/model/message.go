package model

// Priority orders outbound messages. Lower values are sent first.
type Priority int

const (
	PriorityUrgent Priority = iota
	PriorityBulk
)

func (p Priority) String() string {
	if p == PriorityUrgent {
		return "urgent"
	}
	return "bulk"
}

// Message is an outbound email.
type Message struct {
	ID      string
	To      string
	Subject string
	Body    string
}

// FirstNamePlaceholder is replaced by each recipient's first name in a mailing.
const FirstNamePlaceholder = "<first_name>"

// Mailing is a free-form message sent to many clients. A zero RepositoryID
// targets every delivery point.
type Mailing struct {
	Subject      string
	Body         string
	RepositoryID int64
}

// MailingReport counts the recipients of a mailing.
type MailingReport struct {
	Recipients int
	Queued     int
}
