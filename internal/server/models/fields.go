package models

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
)

// Fields is a partial profile document: the extra data passed to profile
// creation or the patch passed to an update.
type Fields map[string]any

// Keys a caller may not set; the store owns them.
var readOnlyKeys = map[string]struct{}{
	"uid": {}, "createdAt": {}, "updatedAt": {}, "emailVerifiedAt": {},
}

// ApplyTo shallow-merges f into p. Known keys are type-checked and stored in
// their typed field; anything else goes to p.Extra. Either every key is
// applied or, on error, p is left untouched.
func (f Fields) ApplyTo(p *Profile, now time.Time) error {
	next := p.Clone()
	for _, k := range slices.Sorted(maps.Keys(f)) {
		if err := next.setField(k, f[k], now); err != nil {
			return err
		}
	}
	*p = *next
	return nil
}

func (p *Profile) setField(key string, v any, now time.Time) error {
	if _, ro := readOnlyKeys[key]; ro {
		return fmt.Errorf("%w: %s is read-only", common.ErrInvalidField, key)
	}
	switch key {
	case "email":
		s, err := asString(key, v)
		if err != nil {
			return err
		}
		p.Email = s
	case "displayName":
		s, err := asString(key, v)
		if err != nil {
			return err
		}
		p.DisplayName = s
	case "phoneNumber":
		s, err := asString(key, v)
		if err != nil {
			return err
		}
		p.PhoneNumber = s
	case "photoURL":
		s, err := asString(key, v)
		if err != nil {
			return err
		}
		p.PhotoURL = s
	case "emailVerified":
		b, err := asBool(key, v)
		if err != nil {
			return err
		}
		p.SetEmailVerified(b, now)
	case "role":
		s, err := asString(key, v)
		if err != nil {
			return err
		}
		r, err := ParseRole(s)
		if err != nil {
			return err
		}
		p.Role = r
	case "isActive":
		b, err := asBool(key, v)
		if err != nil {
			return err
		}
		p.IsActive = b
	default:
		if p.Extra == nil {
			p.Extra = map[string]any{}
		}
		p.Extra[key] = v
	}
	return nil
}

// nil clears a string field.
func asString(key string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", common.ErrInvalidField, key)
	}
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean", common.ErrInvalidField, key)
	}
	return b, nil
}
