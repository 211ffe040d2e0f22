package domain

import (
	"encoding/json" // JSON decoding of backend user objects
	"strings"       // String manipulation
)

// Session types stored with a session marker
const (
	UserTypeUser  = "user"  // Regular guest account
	UserTypeAdmin = "admin" // Restaurant staff with access to the admin panel
)

// User is the identity returned by the backend on login
type User struct {
	ID    string `json:"id"`    // Backend identifier (_id or id)
	Name  string `json:"name"`  // Display name
	Email string `json:"email"` // Login email
}

// UnmarshalJSON accepts both `_id` and `id` as the identifier
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID string `json:"_id"`   // Mongo style identifier
		ID      string `json:"id"`    // Plain identifier
		Name    string `json:"name"`  // Display name
		Email   string `json:"email"` // Login email
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.MongoID // Prefer _id
	if u.ID == "" {
		u.ID = raw.ID // Fall back to id
	}
	u.Name = raw.Name
	u.Email = raw.Email
	return nil
}

// DisplayName returns the name, or the email when the backend sent no name
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// Owner identifies whose reservations a listing is for
type Owner struct {
	ID    string // Backend user identifier, may be empty
	Email string // Email fallback, may be empty
}

// IsZero reports whether the owner carries no identifying information
func (o Owner) IsZero() bool {
	return o.ID == "" && strings.TrimSpace(o.Email) == ""
}
