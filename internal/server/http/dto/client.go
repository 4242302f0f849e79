package dto

// ClientStatusRequest enables or disables a client.
type ClientStatusRequest struct {
	Disabled *bool `json:"disabled"`
}

// MailingRequest sends a message to clients. A zero repository_id targets
// every delivery point.
type MailingRequest struct {
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	RepositoryID int64  `json:"repository_id"`
}

// MailingResponse counts the queued copies of a mailing.
type MailingResponse struct {
	Recipients int  `json:"recipients"`
	Queued     int  `json:"queued"`
	Incomplete bool `json:"notification_incomplete,omitempty"`
}
