package models

import "time"

// SessionUser is the "current user" a client keeps: credential fields
// overlaid with the profile when one exists. It never carries a password.
type SessionUser struct {
	UID             string     `json:"uid"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"displayName,omitempty"`
	PhoneNumber     string     `json:"phoneNumber,omitempty"`
	PhotoURL        string     `json:"photoURL,omitempty"`
	EmailVerified   bool       `json:"emailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	Role            Role       `json:"role,omitempty"`
	IsActive        bool       `json:"isActive"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`

	Extra map[string]any `json:"-"`
}

var sessionUserKeys = map[string]struct{}{
	"uid": {}, "email": {}, "displayName": {}, "phoneNumber": {}, "photoURL": {},
	"emailVerified": {}, "emailVerifiedAt": {}, "role": {}, "isActive": {},
	"createdAt": {}, "updatedAt": {},
}

type sessionUserAlias SessionUser

func (u SessionUser) MarshalJSON() ([]byte, error) {
	return marshalFlat((*sessionUserAlias)(&u), u.Extra)
}

func (u *SessionUser) UnmarshalJSON(b []byte) error {
	extra, err := unmarshalFlat(b, (*sessionUserAlias)(u), sessionUserKeys)
	if err != nil {
		return err
	}
	u.Extra = extra
	return nil
}

// Ref returns the identity credential operations need.
func (u *SessionUser) Ref() UserRef {
	return UserRef{UID: u.UID, Email: u.Email}
}

// SessionUserFromCredential builds the session view of c without its password.
func SessionUserFromCredential(c *Credential) SessionUser {
	return SessionUser{
		UID:           c.ID,
		Email:         c.Email,
		DisplayName:   c.DisplayName,
		EmailVerified: c.EmailVerified,
		Role:          c.Role,
		IsActive:      c.IsActive,
	}
}

// SessionUserFromProfile builds the session view of p.
func SessionUserFromProfile(p *Profile) SessionUser {
	var u SessionUser
	u.Merge(p)
	return u
}

// Merge overlays every profile field on u; the profile wins on conflict.
func (u *SessionUser) Merge(p *Profile) {
	if p == nil {
		return
	}
	c := p.Clone()
	u.UID = c.ID
	u.Email = c.Email
	u.DisplayName = c.DisplayName
	u.PhoneNumber = c.PhoneNumber
	u.PhotoURL = c.PhotoURL
	u.EmailVerified = c.EmailVerified
	u.EmailVerifiedAt = c.EmailVerifiedAt
	u.Role = c.Role
	u.IsActive = c.IsActive
	u.CreatedAt = &c.CreatedAt
	u.UpdatedAt = &c.UpdatedAt
	if len(c.Extra) > 0 {
		if u.Extra == nil {
			u.Extra = map[string]any{}
		}
		for k, v := range c.Extra {
			u.Extra[k] = v
		}
	}
}

// HasRole reports whether the user holds role r.
func (u *SessionUser) HasRole(r Role) bool {
	return u != nil && u.Role == r
}

// Source returns the profile-creation input for this user.
func (u *SessionUser) Source() ProfileSource {
	return ProfileSource{
		UID:           u.UID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
	}
}
