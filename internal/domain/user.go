package domain

import (
	"strings"
	"time"
)

// Identity is the authenticated caller as confirmed by the identity provider.
// It only lives as long as the session that carries it.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// User is a roster entry for somebody who has signed in at least once.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserFromIdentity builds the roster entry recorded for a signed-in identity.
func UserFromIdentity(id Identity) User {
	return User{
		Email:    NormalizeEmail(id.Email),
		Name:     strings.TrimSpace(id.DisplayName),
		PhotoURL: strings.TrimSpace(id.PhotoURL),
	}
}

// NormalizeEmail lowercases and trims an address so comparisons are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail reports whether two addresses refer to the same mailbox.
func SameEmail(a, b string) bool {
	a, b = NormalizeEmail(a), NormalizeEmail(b)
	return a != "" && a == b
}
