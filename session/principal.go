package session

import (
	"github.com/jrsteele09/go-session-gateway/token"
)

// Material pairs a raw signed token with its decoded claims.
type Material struct {
	Value  string       `json:"value"`
	Claims token.Claims `json:"claims"`
}

// Principal is the fully validated identity produced by a successful
// authentication. It is constructed once by the authenticator and never
// mutated afterwards; callers see read-only projections only.
//
// The access token is the single source of truth for authorization
// identity. Roles and UserNumericID are derived from its claims even when
// a refresh token is present.
type Principal struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Roles         []string  `json:"roles"`
	UserNumericID int64     `json:"userNumericId"`
	AccessToken   Material  `json:"accessToken"`
	RefreshToken  *Material `json:"refreshToken,omitempty"`
}
