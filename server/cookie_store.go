package server

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/session"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealKeyLength = 32
	nonceLength   = 24
)

// CookieStore keeps the session record on the client inside a sealed
// (encrypted and authenticated) cookie. The gateway holds no server-side
// session state; the cookie is the store.
type CookieStore struct {
	name   string
	key    [sealKeyLength]byte
	maxAge time.Duration
	secure bool
}

var _ session.Store = (*CookieStore)(nil)

// NewCookieStore creates a cookie store from the session configuration.
// The seal key must be exactly 32 bytes.
func NewCookieStore(cfg config.SessionConfig) (*CookieStore, error) {
	keyBytes := []byte(cfg.GetSessionSealKey())
	if len(keyBytes) != sealKeyLength {
		return nil, errors.Errorf("[NewCookieStore] session seal key must be %d bytes, got %d", sealKeyLength, len(keyBytes))
	}

	cs := &CookieStore{
		name:   cfg.GetSessionCookieName(),
		maxAge: cfg.GetSessionMaxAge(),
		secure: cfg.GetSecureCookies(),
	}
	copy(cs.key[:], keyBytes)
	return cs, nil
}

// Write seals the record under a fresh random nonce and sets it as the
// session cookie.
func (cs *CookieStore) Write(w http.ResponseWriter, record *session.Record) error {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "[CookieStore.Write] marshal record")
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return errors.Wrap(err, "[CookieStore.Write] nonce generation")
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &cs.key)

	http.SetCookie(w, &http.Cookie{
		Name:     cs.name,
		Value:    base64.RawURLEncoding.EncodeToString(sealed),
		Path:     "/",
		MaxAge:   int(cs.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read recovers the record from the request cookie. A missing cookie, a
// value that fails to open under the seal key, or an undecodable record
// all read as an absent session.
func (cs *CookieStore) Read(r *http.Request) (*session.Record, error) {
	cookie, err := r.Cookie(cs.name)
	if err != nil {
		return nil, nil
	}

	sealed, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil || len(sealed) <= nonceLength {
		return nil, nil
	}

	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])

	plaintext, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, &cs.key)
	if !ok {
		return nil, nil
	}

	var record session.Record
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return nil, nil
	}
	return &record, nil
}

// Clear expires the session cookie on the client.
func (cs *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cs.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
