package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a cooperative member placing orders.
type Client struct {
	ID           int64
	Login        string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	RepositoryID int64
	Wallet       decimal.Decimal
	Disabled     bool
	Admin        bool
	CreatedAt    time.Time
}

// CanOrder reports whether the client may create, edit or cancel orders.
func (c *Client) CanOrder() bool {
	return c != nil && !c.Disabled
}

// FullName joins first and last name.
func (c Client) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// ClientRegistration carries the fields needed to create a client.
type ClientRegistration struct {
	Login        string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	RepositoryID int64
}

// SignUp is the data a client submits when registering.
type SignUp struct {
	Login        string
	Password     string
	FirstName    string
	LastName     string
	Email        string
	RepositoryID int64
}
