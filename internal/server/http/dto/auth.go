package dto

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterRequest is the sign-up payload of a client.
type RegisterRequest struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	RepositoryID int64  `json:"repository_id"`
}

// ClientResponse describes the authenticated client.
type ClientResponse struct {
	ID           int64  `json:"id"`
	Login        string `json:"login"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email,omitempty"`
	RepositoryID int64  `json:"repository_id"`
	Admin        bool   `json:"admin,omitempty"`
	Disabled     bool   `json:"disabled,omitempty"`
}
