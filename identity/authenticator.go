package identity

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/jrsteele09/go-session-gateway/session"
	"github.com/jrsteele09/go-session-gateway/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Credentials carries one authentication attempt's email and password.
// Ephemeral: used once, never persisted or logged.
type Credentials struct {
	Email    string
	Password string
}

// Authenticator exchanges credentials with the identity API for a
// validated Principal. Construction is all-or-nothing: no failure path
// produces a partially trusted principal.
type Authenticator struct {
	loginService LoginService
	codec        *token.Codec
	log          zerolog.Logger
}

// NewAuthenticator initializes an Authenticator with its required
// dependencies.
func NewAuthenticator(loginService LoginService, codec *token.Codec, log zerolog.Logger) (*Authenticator, error) {
	if loginService == nil {
		return nil, errors.New("[NewAuthenticator] login service is required")
	}
	if codec == nil {
		return nil, errors.New("[NewAuthenticator] token codec is required")
	}

	return &Authenticator{
		loginService: loginService,
		codec:        codec,
		log:          log,
	}, nil
}

// Authenticate submits the credentials to the identity API and builds a
// Principal from the issued tokens. When verification is enabled the
// access token's signature and expiry are checked before any claim is
// trusted. Every returned error matches ErrAuthenticationDenied; the
// concrete reason is logged locally and available via errors.Is for
// callers inside this process.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*session.Principal, error) {
	pair, err := a.loginService.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, a.deny(creds.Email, err)
	}

	if a.codec.VerificationEnabled() {
		if err := a.codec.Verify(pair.AccessToken); err != nil {
			return nil, a.deny(creds.Email, err)
		}
	}

	accessClaims, err := a.codec.Decode(pair.AccessToken)
	if err != nil {
		return nil, a.deny(creds.Email, err)
	}

	numericID, err := strconv.ParseInt(accessClaims.UserID, 10, 64)
	if err != nil {
		return nil, a.deny(creds.Email, apperrors.Wrapf(apperrors.ErrInvalidClaim, "userId %q is not numeric", accessClaims.UserID))
	}

	var refreshToken *session.Material
	if pair.RefreshToken != "" {
		refreshClaims, err := a.codec.Decode(pair.RefreshToken)
		if err != nil {
			return nil, a.deny(creds.Email, err)
		}
		refreshToken = &session.Material{Value: pair.RefreshToken, Claims: *refreshClaims}
	}

	return &session.Principal{
		ID:            accessClaims.UserID,
		Email:         accessClaims.Email,
		Name:          accessClaims.Name,
		Roles:         accessClaims.Roles(),
		UserNumericID: numericID,
		AccessToken:   session.Material{Value: pair.AccessToken, Claims: *accessClaims},
		RefreshToken:  refreshToken,
	}, nil
}

// deny logs the concrete reason and collapses it into the uniform denial
// outcome. Both the denial sentinel and the cause stay matchable in the
// returned chain; neither crosses the HTTP boundary.
func (a *Authenticator) deny(email string, cause error) error {
	a.log.Warn().Err(cause).Str("email", email).Msg("authentication denied")
	if apperrors.Is(cause, apperrors.ErrAuthenticationDenied) {
		return cause
	}
	return fmt.Errorf("%w: %w", apperrors.ErrAuthenticationDenied, cause)
}
