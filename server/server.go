package server

import (
	"net/http"

	"github.com/jrsteele09/go-session-gateway/identity"
	"github.com/jrsteele09/go-session-gateway/internal/config"
	"github.com/jrsteele09/go-session-gateway/session"
	"github.com/jrsteele09/go-session-gateway/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Server is the HTTP surface of the session gateway. Identity comes from
// the remote identity API's signed tokens; the server itself holds no
// user state beyond the sealed cookie it hands to clients.
type Server struct {
	env            string
	mux            *http.ServeMux
	routes         []string
	config         config.Config
	authenticator  *identity.Authenticator
	identityClient *identity.Client
	composer       session.Composer
	sessions       session.Store
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithSessionStore overrides the sealed cookie store (primarily for
// tests).
func WithSessionStore(store session.Store) ServerOption {
	return func(s *Server) {
		s.sessions = store
	}
}

func New(cfg config.Config, options ...ServerOption) (*Server, error) {
	codecOptions := []token.CodecOption{}
	if !cfg.GetVerifySignature() {
		codecOptions = append(codecOptions, token.WithoutVerification())
	}

	codec, err := token.NewCodec([]byte(cfg.GetTokenSecret()), codecOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create token codec")
	}

	identityClient, err := identity.NewClient(cfg.GetIdentityBaseURL(), cfg.GetIdentityTimeout())
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create identity client")
	}

	authenticator, err := identity.NewAuthenticator(identityClient, codec, log.With().Str("component", "authenticator").Logger())
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create authenticator")
	}

	sessions, err := NewCookieStore(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create session store")
	}

	s := &Server{
		env:            cfg.GetEnv(),
		mux:            http.NewServeMux(),
		config:         cfg,
		authenticator:  authenticator,
		identityClient: identityClient,
		sessions:       sessions,
	}

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}
