package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/pkg/errors"
)

// Codec decodes and optionally verifies bearer tokens issued by the
// identity API. The verification secret is injected at construction, never
// read from process-wide state. Codec methods are pure functions over
// their inputs.
type Codec struct {
	secret          []byte
	verifySignature bool
	parser          *jwtlib.Parser
}

// CodecOption modifies a Codec during construction.
type CodecOption func(*Codec)

// WithoutVerification opts out of signature verification. Decoded claims
// are then trusted structurally only (decode-only profile).
func WithoutVerification() CodecOption {
	return func(c *Codec) {
		c.verifySignature = false
	}
}

// NewCodec creates a Codec for tokens signed with the given HMAC secret.
// Verification is enabled by default and requires a non-empty secret.
func NewCodec(secret []byte, options ...CodecOption) (*Codec, error) {
	c := &Codec{
		secret:          secret,
		verifySignature: true,
		parser:          jwtlib.NewParser(jwtlib.WithValidMethods([]string{"HS256"})),
	}

	for _, opt := range options {
		opt(c)
	}

	if c.verifySignature && len(c.secret) == 0 {
		return nil, errors.New("[NewCodec] verification enabled but no secret supplied")
	}

	return c, nil
}

// VerificationEnabled reports whether tokens must pass signature and
// temporal checks before their claims are trusted.
func (c *Codec) VerificationEnabled() bool {
	return c.verifySignature
}

// Decode parses the token's payload segment without requiring a valid
// signature. It fails with ErrMalformedToken when the structure cannot be
// parsed or a required claim is missing.
func (c *Codec) Decode(raw string) (*Claims, error) {
	unverified, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedToken, "[Codec.Decode] parse: %v", err)
	}

	mapClaims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedToken, "[Codec.Decode] claims extraction")
	}

	userID, _ := mapClaims["userId"].(string)
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	scope, _ := mapClaims["scope"].(string)
	sub, _ := mapClaims["sub"].(string)
	exp, _ := mapClaims["exp"].(float64)
	iat, _ := mapClaims["iat"].(float64)

	if userID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedToken, "[Codec.Decode] missing userId claim")
	}
	if email == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedToken, "[Codec.Decode] missing email claim")
	}

	claims := &Claims{
		UserID:  userID,
		Email:   email,
		Name:    name,
		Scope:   scope,
		Subject: sub,
	}
	if exp != 0 {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if iat != 0 {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}

	return claims, nil
}

// Verify independently validates the token's signature and temporal claims
// (expiry, not-before) against the codec's secret. A token that fails here
// must never reach claim-trust state.
func (c *Codec) Verify(raw string) error {
	parsed, err := c.parser.Parse(raw, c.verificationKey)
	if err != nil || !parsed.Valid {
		return apperrors.Wrapf(apperrors.ErrVerificationFailed, "[Codec.Verify] %v", err)
	}
	return nil
}

func (c *Codec) verificationKey(t *jwtlib.Token) (any, error) {
	if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return c.secret, nil
}
