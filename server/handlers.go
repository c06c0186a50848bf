package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// LoginHandler authenticates the submitted credentials against the
// identity API and establishes the session. Every failure collapses to
// the same 401 body; nothing about the denial reason crosses this
// boundary.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
			return
		}

		principal, err := s.authenticator.Authenticate(r.Context(), identity.Credentials{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
			return
		}

		// Fresh authentication replaces any previously stored material.
		record := s.composer.Update(nil, principal)
		if err := s.sessions.Write(w, record); err != nil {
			log.Err(err).Msg("failed to write session record")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, s.composer.Compose(&record.Principal))
	}
}

// SessionHandler exposes the Session|None contract: the derived session
// for an authenticated client, a JSON null otherwise.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		derived := SessionFromContext(r.Context())
		if derived == nil {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, derived)
	}
}

// LogoutHandler clears the session cookie. The identity API is not
// contacted; token revocation is not this gateway's protocol.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// RegisterHandler forwards a registration request to the identity API and
// reports an opaque outcome.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name, email and password are required"})
			return
		}

		if err := s.identityClient.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
			log.Warn().Err(err).Msg("registration rejected")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "registration failed"})
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response body")
	}
}
