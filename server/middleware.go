package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jrsteele09/go-session-gateway/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the derived *session.Session for the request
	ContextKeySession ContextKey = "session"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// APIMiddleware is the default chain for the JSON endpoints.
func (s *Server) APIMiddleware(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
	chained := []func(http.HandlerFunc) http.HandlerFunc{
		s.RecoverMiddleware,
		s.LoggingMiddleware,
	}
	chained = append(chained, mw...)
	return chained
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env != "DEV" {
			next(w, r)
			return
		}
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("recovered from panic")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// SessionMiddleware re-derives the Session from the stored record and
// places it on the request context. A request without a valid record
// continues unauthenticated. A record whose access token has expired with
// no refresh token is terminal: the cookie is cleared and the request
// continues unauthenticated.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := s.sessions.Read(r)
		if err != nil || record == nil {
			next(w, r)
			return
		}

		claims := record.Principal.AccessToken.Claims
		if claims.Expired(time.Now()) && record.Principal.RefreshToken == nil {
			s.sessions.Clear(w)
			next(w, r)
			return
		}

		// Subsequent request: carry the stored material through unchanged.
		record = s.composer.Update(record, nil)
		derived := s.composer.Compose(&record.Principal)

		ctx := context.WithValue(r.Context(), ContextKeySession, &derived)
		next(w, r.WithContext(ctx))
	}
}

// SessionFromContext returns the Session derived for this request, or nil
// when the request is unauthenticated.
func SessionFromContext(ctx context.Context) *session.Session {
	derived, _ := ctx.Value(ContextKeySession).(*session.Session)
	return derived
}

// statusRecorder wraps http.ResponseWriter to capture the response status
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}
