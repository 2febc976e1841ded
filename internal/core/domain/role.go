package domain

import (
	"encoding/json"
	"fmt"
)

// Role is a single privilege label carried by an identity.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Known reports whether r is one of the role tokens the application understands.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleUser
}

// Roles is an ordered set of role tokens. Values are normalized when they
// cross a boundary (record store decoding, durable storage hydration) so the
// rest of the code never sees the single-string form.
type Roles []Role

// NewRoles builds a normalized set: empty tokens are dropped and duplicates
// keep their first position.
func NewRoles(tokens ...string) Roles {
	out := make(Roles, 0, len(tokens))
	seen := make(map[Role]struct{}, len(tokens))
	for _, t := range tokens {
		r := Role(t)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ParseRoles normalizes a loosely typed role attribute: a single string, a
// list of strings, or a list of arbitrary values. Anything else yields an
// empty set.
func ParseRoles(v any) Roles {
	switch t := v.(type) {
	case nil:
		return Roles{}
	case string:
		return NewRoles(t)
	case Role:
		return NewRoles(string(t))
	case []string:
		return NewRoles(t...)
	case Roles:
		tokens := make([]string, len(t))
		for i, r := range t {
			tokens[i] = string(r)
		}
		return NewRoles(tokens...)
	case []any:
		tokens := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				tokens = append(tokens, s)
			}
		}
		return NewRoles(tokens...)
	default:
		return Roles{}
	}
}

// Contains reports whether r is part of the set.
func (rs Roles) Contains(r Role) bool {
	for _, have := range rs {
		if have == r {
			return true
		}
	}
	return false
}

// Default returns the role a fresh session should present: ADMIN when held,
// otherwise the first listed role.
func (rs Roles) Default() (Role, bool) {
	if rs.Contains(RoleAdmin) {
		return RoleAdmin, true
	}
	if len(rs) == 0 {
		return "", false
	}
	return rs[0], true
}

// UnmarshalJSON accepts both `"ADMIN"` and `["ADMIN","USER"]`.
func (rs *Roles) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode roles: %w", err)
	}
	*rs = ParseRoles(raw)
	return nil
}
