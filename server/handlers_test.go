package server_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/server"
	"github.com/jrsteele09/go-session-gateway/session"
	"github.com/jrsteele09/go-session-gateway/token"
	"github.com/stretchr/testify/require"
)

const (
	secretStr        = "test-secret-1234"
	testUserEmail    = "a@x.com"
	testUserPassword = "goodpass"
)

var sealKey = strings.Repeat("s", 32)

func signToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secretStr))
	require.NoError(t, err)
	return signed
}

// fakeIdentityAPI verifies the fixed test credentials and issues a signed
// token pair, standing in for the remote identity API.
func fakeIdentityAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email != testUserEmail || creds.Password != testUserPassword {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		access := signToken(t, jwtlib.MapClaims{
			"userId": "42",
			"email":  testUserEmail,
			"scope":  "admin editor",
			"exp":    time.Now().Add(time.Hour).Unix(),
		})
		refresh := signToken(t, jwtlib.MapClaims{
			"userId": "42",
			"email":  testUserEmail,
			"exp":    time.Now().Add(7 * 24 * time.Hour).Unix(),
		})
		fmt.Fprintf(w, `{"data":{"accessToken":{"value":%q},"refreshToken":{"value":%q}}}`, access, refresh)
	})
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	api := httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

func newGateway(t *testing.T, apiURL string) *server.Server {
	t.Helper()
	t.Setenv("IDENTITY_API_URL", apiURL)
	t.Setenv("JWT_SECRET", secretStr)
	t.Setenv("SESSION_SEAL_KEY", sealKey)

	gateway, err := server.New(config.New())
	require.NoError(t, err)
	return gateway
}

func login(t *testing.T, gateway *server.Server, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	request := httptest.NewRequest(http.MethodPost, server.RouteLogin, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)
	return recorder
}

func readBody(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	body, err := io.ReadAll(recorder.Result().Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(body))
}

func TestLoginEstablishesSession(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	recorder := login(t, gateway, testUserEmail, testUserPassword)
	require.Equal(t, http.StatusOK, recorder.Code)

	var established session.Session
	require.NoError(t, json.Unmarshal([]byte(readBody(t, recorder)), &established))
	require.NotEmpty(t, established.AccessToken)
	require.NotEmpty(t, established.RefreshToken)
	require.Equal(t, "42", established.User.ID)
	require.Equal(t, testUserEmail, established.User.Email)
	require.Equal(t, []string{"admin", "editor"}, established.User.Roles)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	// A subsequent request re-derives the identical session from the cookie
	request := httptest.NewRequest(http.MethodGet, server.RouteSession, nil)
	request.AddCookie(cookies[0])
	sessionRecorder := httptest.NewRecorder()
	gateway.ServeHTTP(sessionRecorder, request)

	require.Equal(t, http.StatusOK, sessionRecorder.Code)
	var derived session.Session
	require.NoError(t, json.Unmarshal([]byte(readBody(t, sessionRecorder)), &derived))
	require.Equal(t, established, derived)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	recorder := login(t, gateway, testUserEmail, "wrongpass")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.JSONEq(t, `{"error":"invalid credentials"}`, readBody(t, recorder))
	require.Empty(t, recorder.Result().Cookies())
}

func TestLoginValidatesRequestBody(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	tests := map[string]string{
		"not json":         "not json",
		"missing email":    `{"password":"goodpass"}`,
		"missing password": `{"email":"a@x.com"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, server.RouteLogin, strings.NewReader(body))
			recorder := httptest.NewRecorder()
			gateway.ServeHTTP(recorder, request)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestSessionWithoutCookie(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	request := httptest.NewRequest(http.MethodGet, server.RouteSession, nil)
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "null", readBody(t, recorder))
}

func TestSessionWithTamperedCookie(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	recorder := login(t, gateway, testUserEmail, testUserPassword)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookies[0].Value = "AAAA" + cookies[0].Value[4:]

	request := httptest.NewRequest(http.MethodGet, server.RouteSession, nil)
	request.AddCookie(cookies[0])
	sessionRecorder := httptest.NewRecorder()
	gateway.ServeHTTP(sessionRecorder, request)

	require.Equal(t, http.StatusOK, sessionRecorder.Code)
	require.Equal(t, "null", readBody(t, sessionRecorder))
}

func sealedCookie(t *testing.T, record *session.Record) *http.Cookie {
	t.Helper()
	return writeCookie(t, newStore(t, sealKey), record)
}

func expiredPrincipal(withRefresh bool) session.Principal {
	claims := token.Claims{
		UserID:    "42",
		Email:     testUserEmail,
		Scope:     "admin",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	principal := session.Principal{
		ID:            "42",
		Email:         testUserEmail,
		Roles:         claims.Roles(),
		UserNumericID: 42,
		AccessToken:   session.Material{Value: "expired-access-token", Claims: claims},
	}
	if withRefresh {
		principal.RefreshToken = &session.Material{
			Value: "refresh-token-value",
			Claims: token.Claims{
				UserID:    "42",
				Email:     testUserEmail,
				ExpiresAt: time.Now().Add(time.Hour),
			},
		}
	}
	return principal
}

func TestSessionExpiredWithoutRefreshIsTerminal(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	cookie := sealedCookie(t, &session.Record{
		ID:        "record-1",
		Principal: expiredPrincipal(false),
		CreatedAt: time.Now(),
	})

	request := httptest.NewRequest(http.MethodGet, server.RouteSession, nil)
	request.AddCookie(cookie)
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "null", readBody(t, recorder))

	// The terminal record is cleared from the client
	cleared := recorder.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Empty(t, cleared[0].Value)
}

func TestSessionExpiredWithRefreshIsSurfaced(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	cookie := sealedCookie(t, &session.Record{
		ID:        "record-1",
		Principal: expiredPrincipal(true),
		CreatedAt: time.Now(),
	})

	request := httptest.NewRequest(http.MethodGet, server.RouteSession, nil)
	request.AddCookie(cookie)
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	// The external refresh flow needs the session surfaced, refresh token
	// included, to re-authenticate.
	var derived session.Session
	require.NoError(t, json.Unmarshal([]byte(readBody(t, recorder)), &derived))
	require.Equal(t, "expired-access-token", derived.AccessToken)
	require.Equal(t, "refresh-token-value", derived.RefreshToken)
}

func TestLogoutClearsSession(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	request := httptest.NewRequest(http.MethodPost, server.RouteLogout, nil)
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestRegisterPassThrough(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	body := `{"name":"Ada Lovelace","email":"ada@x.com","password":"newpass"}`
	request := httptest.NewRequest(http.MethodPost, server.RouteRegister, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
}

func TestRegisterRejectedUpstream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"email taken"}`, http.StatusConflict)
	})
	api := httptest.NewServer(mux)
	t.Cleanup(api.Close)

	gateway := newGateway(t, api.URL)

	body := `{"name":"Ada Lovelace","email":"ada@x.com","password":"newpass"}`
	request := httptest.NewRequest(http.MethodPost, server.RouteRegister, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestRegisterValidatesRequestBody(t *testing.T) {
	gateway := newGateway(t, fakeIdentityAPI(t).URL)

	request := httptest.NewRequest(http.MethodPost, server.RouteRegister, strings.NewReader(`{"name":"x"}`))
	recorder := httptest.NewRecorder()
	gateway.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}
