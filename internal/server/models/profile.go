package models

import (
	"encoding/json"
	"time"
)

// Profile is the display and contact document stored per account identifier.
// Extra holds fields the store does not know about; they are flattened into
// the top level of the JSON form.
type Profile struct {
	ID              string     `json:"uid"`
	Email           string     `json:"email"`
	DisplayName     string     `json:"displayName"`
	PhoneNumber     string     `json:"phoneNumber"`
	PhotoURL        string     `json:"photoURL"`
	EmailVerified   bool       `json:"emailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	AccountStatus
	Extra map[string]any `json:"-"`
}

// ProfileSource is the account data a profile is created from.
type ProfileSource struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoURL"`
	EmailVerified bool   `json:"emailVerified"`
}

var profileKeys = map[string]struct{}{
	"uid": {}, "email": {}, "displayName": {}, "phoneNumber": {}, "photoURL": {},
	"emailVerified": {}, "emailVerifiedAt": {}, "createdAt": {}, "updatedAt": {},
	"role": {}, "isActive": {},
}

type profileAlias Profile

func (p Profile) MarshalJSON() ([]byte, error) {
	return marshalFlat((*profileAlias)(&p), p.Extra)
}

func (p *Profile) UnmarshalJSON(b []byte) error {
	extra, err := unmarshalFlat(b, (*profileAlias)(p), profileKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	return nil
}

// Clone returns a deep enough copy for callers to mutate without touching
// the stored record.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.EmailVerifiedAt != nil {
		t := *p.EmailVerifiedAt
		c.EmailVerifiedAt = &t
	}
	if p.Extra != nil {
		c.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// SetEmailVerified keeps EmailVerifiedAt in step with EmailVerified: it is
// stamped when the flag turns true and cleared when it turns false.
func (p *Profile) SetEmailVerified(v bool, now time.Time) {
	if v && (!p.EmailVerified || p.EmailVerifiedAt == nil) {
		t := now
		p.EmailVerifiedAt = &t
	}
	if !v {
		p.EmailVerifiedAt = nil
	}
	p.EmailVerified = v
}

func marshalFlat(known any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func unmarshalFlat(b []byte, known any, keys map[string]struct{}) (map[string]any, error) {
	if err := json.Unmarshal(b, known); err != nil {
		return nil, err
	}
	all := map[string]any{}
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	var extra map[string]any
	for k, v := range all {
		if _, ok := keys[k]; ok {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = v
	}
	return extra, nil
}
