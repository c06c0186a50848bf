package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-session-gateway/internal/errors"
	"github.com/jrsteele09/go-session-gateway/internal/utils"
	"github.com/pkg/errors"
)

const (
	loginPath    = "/auth/login"
	registerPath = "/users/register"
)

// TokenPair holds the raw signed tokens returned by the identity API's
// login endpoint. RefreshToken is empty when the API issued a single
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginService is the slice of the identity API consumed by the
// authenticator.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
}

// Client talks to the remote identity API over HTTP. It is safe for
// concurrent use; each call is independent.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ LoginService = (*Client)(nil)

// ClientOption modifies a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for
// tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates an identity API client. The timeout bounds every
// request; it is the only blocking point of an authentication attempt.
func NewClient(baseURL string, timeout time.Duration, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("[NewClient] baseURL is required")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registrationBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenArtifact struct {
	Value string `json:"value"`
}

type loginPayload struct {
	AccessToken  *tokenArtifact `json:"accessToken"`
	RefreshToken *tokenArtifact `json:"refreshToken"`
}

// loginResponse accepts both the enveloped shape
// {"data":{"accessToken":...}} and the bare payload shape some revisions
// of the identity API return.
type loginResponse struct {
	Data *loginPayload `json:"data"`
	loginPayload
}

func (lr loginResponse) payload() loginPayload {
	if lr.Data != nil {
		return *lr.Data
	}
	return lr.loginPayload
}

// Login exchanges credentials for the token pair issued by the identity
// API. Any non-2xx status is reported uniformly as a denial so callers
// cannot distinguish unknown accounts from bad passwords.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	resp, err := c.postJSON(ctx, loginPath, credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationDenied, "[Client.Login] identity API status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationDenied, "[Client.Login] malformed response body: %v", err)
	}

	payload := lr.payload()
	if payload.AccessToken == nil || payload.AccessToken.Value == "" {
		return nil, apperrors.Wrapf(apperrors.ErrAuthenticationDenied, "[Client.Login] response missing access token")
	}

	return &TokenPair{
		AccessToken:  payload.AccessToken.Value,
		RefreshToken: utils.Value(payload.RefreshToken).Value,
	}, nil
}

// Register forwards a registration request to the identity API. Account
// creation itself is the API's responsibility; the gateway only reports
// an opaque success or failure.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	resp, err := c.postJSON(ctx, registerPath, registrationBody{Name: name, Email: email, Password: password})
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrRegistrationFailed, "%v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.Wrapf(apperrors.ErrRegistrationFailed, "[Client.Register] identity API status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.postJSON] marshal body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "[Client.postJSON] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

// transportError classifies a failed round trip so the denial reason is
// useful in local diagnostics.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrapf(apperrors.ErrTimeout, "%v", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Wrapf(apperrors.ErrTimeout, "%v", err)
	}
	return fmt.Errorf("%w: %w", apperrors.ErrIdentityUnreachable, err)
}
