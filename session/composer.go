package session

import (
	"time"

	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Record is what the store persists between requests: the principal's
// token material and derived identity fields, under an opaque record ID.
type Record struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	CreatedAt time.Time `json:"createdAt"`
}

// Composer derives the client-facing Session from stored principals. All
// methods are pure; persistence belongs to the Store.
type Composer struct{}

// Compose maps a validated Principal to its Session projection. It is
// deterministic and total over principals produced by the authenticator.
// User identity always comes from the access token's claims, never the
// refresh token's.
func (Composer) Compose(p *Principal) Session {
	s := Session{
		AccessToken: p.AccessToken.Value,
		User: User{
			ID:    p.AccessToken.Claims.UserID,
			Email: p.AccessToken.Claims.Email,
			Roles: append([]string(nil), p.Roles...),
		},
	}
	if p.RefreshToken != nil {
		s.RefreshToken = p.RefreshToken.Value
	}
	return s
}

// Update is the per-request recomposition step. A fresh principal replaces
// all token material and identity fields in the stored record; merging
// stale and fresh claims is not permitted. With no fresh principal the
// stored record is carried through unchanged.
func (Composer) Update(existing *Record, principal *Principal) *Record {
	if principal == nil {
		return existing
	}
	return &Record{
		ID:        uuid.New().String(),
		Principal: *principal,
		CreatedAt: NowTimeFunc(),
	}
}
