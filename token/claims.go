package token

import (
	"strings"
	"time"
)

// Claims is the validated payload of a bearer token issued by the identity
// API. Instances are produced only by Codec.Decode and are immutable once
// returned; raw decoded payloads never cross a package boundary.
type Claims struct {
	UserID    string // Canonical user identifier ("userId" claim)
	Email     string
	Name      string // Optional display name
	Scope     string // Whitespace-delimited role names
	Subject   string // Optional "sub" claim (alias for email/userId)
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Roles splits the scope claim on ASCII whitespace. Order and duplicates
// are preserved; an empty scope yields an empty slice.
func (c Claims) Roles() []string {
	return strings.Fields(c.Scope)
}

// Expired reports whether the token's expiry has passed. Tokens without an
// exp claim never expire from the gateway's point of view.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return now.After(c.ExpiresAt)
}
