package expense

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
)

// Server handles HTTP requests for the inference service.
type Server struct {
	service   *Service
	journal   Journal
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds credentials protecting the debug endpoints. Empty
// credentials disable the check.
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux.
func NewServer(service *Service, journal Journal, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, journal, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing.
func NewServerWithMux(service *Service, journal Journal, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		journal:   journal,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials.
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// requireAuth middleware for the debug endpoints.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="SmartReceipt"`)
			writeError(w, r, http.StatusUnauthorized, "Unauthorized", "valid credentials are required")
			return
		}
		next(w, r)
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/v1/receipts/process", s.handleProcessReceipt)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Debug history endpoints
	s.mux.HandleFunc("GET /api/v1/requests/{id}", s.requireAuth(s.handleGetRequest))
	s.mux.HandleFunc("GET /api/v1/requests", s.requireAuth(s.handleListRequests))
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s.mux)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
