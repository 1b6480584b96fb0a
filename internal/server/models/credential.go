package models

import "time"

// Credential is one account in the credential store. It is keyed by Email;
// ID is stable across email changes and is what profiles refer to.
type Credential struct {
	ID            string
	Email         string
	Password      string
	DisplayName   string
	EmailVerified bool
	AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRef identifies the account a credential operation acts on.
type UserRef struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// UserCredential is returned by register and login.
type UserCredential struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}
