package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-portfolio-session/clients"
	"github.com/jrsteele09/go-portfolio-session/internal/config"
	"github.com/jrsteele09/go-portfolio-session/token"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	tokens  *token.Manager
	clients clients.Repo
}

type Option func(*Server)

// WithClients replaces the default registry, which only knows the bootstrap client.
func WithClients(repo clients.Repo) Option {
	return func(s *Server) {
		s.clients = repo
	}
}

func New(config config.Config, tokens *token.Manager, options ...Option) *Server {
	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		tokens: tokens,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.clients == nil {
		s.clients = NewClientRegistry(config)
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Tokens returns the token manager backing the service.
func (s *Server) Tokens() *token.Manager {
	return s.tokens
}

// Clients returns the OAuth2 client registry.
func (s *Server) Clients() clients.Repo {
	return s.clients
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	methodColor, ok := methodColors[method]
	if !ok {
		methodColor = defaultMethodColor
	}
	log.Info().Msgf("[%s] %s", methodColor.Sprintf(" %-7s", method), path)
}
