package domain

// Identity is the authenticated user's profile as returned by the record
// store. Fields the application does not interpret are kept in Attributes.
// Password material never reaches this type.
type Identity struct {
	ID          string         `json:"id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"display_name,omitempty"`
	Roles       Roles          `json:"role"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// HasRole reports whether the identity actually possesses r.
func (i *Identity) HasRole(r Role) bool {
	if i == nil {
		return false
	}
	return i.Roles.Contains(r)
}

// Clone returns a copy that shares no slices or maps with i.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	c.Roles = append(Roles(nil), i.Roles...)
	if i.Attributes != nil {
		c.Attributes = make(map[string]any, len(i.Attributes))
		for k, v := range i.Attributes {
			c.Attributes[k] = v
		}
	}
	return &c
}

// NewUser carries what is needed to create a user record.
type NewUser struct {
	Username       string
	PasswordDigest string
	DisplayName    string
	Roles          Roles
}
