package demo

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bastion-ui/bastion/pkg/form"
	"github.com/bastion-ui/bastion/pkg/live"
)

// User is the payload served by the demo user endpoint.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registration is the demo registration payload. The validate tags are
// the server-side half of the form flow; the client runs the same rules
// through pkg/form before submitting.
type Registration struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

var users = map[string]User{
	"1": {ID: "1", Name: "Ann"},
	"2": {ID: "2", Name: "Bob"},
}

// Server is the simulated backend the demo front-end fetches from. Its
// user endpoint takes failure knobs so every resource state can be
// exercised: ?status=500 forces that status code, ?delay=200ms delays the
// response, and ?garbage=1 returns an undecodable body.
type Server struct {
	logger *slog.Logger
	hub    *live.Hub
	router chi.Router
}

// Option configures the demo server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHub mounts a live hub at /live.
func WithHub(hub *live.Hub) Option {
	return func(s *Server) {
		s.hub = hub
	}
}

// NewServer builds the demo server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default().With("component", "demo"),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/api/users/{id}", s.handleUser)
	r.Post("/api/register", s.handleRegister)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	if s.hub != nil {
		r.Get("/live", s.hub.ServeHTTP)
	}
	s.router = r

	return s
}

// Handler returns the demo server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if d := r.URL.Query().Get("delay"); d != "" {
		if delay, err := time.ParseDuration(d); err == nil {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
	}

	if forced := r.URL.Query().Get("status"); forced != "" {
		if code, err := strconv.Atoi(forced); err == nil && code >= 100 {
			s.logger.Debug("forcing status", "status", code)
			http.Error(w, http.StatusText(code), code)
			return
		}
	}

	if r.URL.Query().Get("garbage") != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{definitely not json`))
		return
	}

	user, ok := users[chi.URLParam(r, "id")]
	if !ok {
		http.Error(w, "no such user", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// RegisterResponse is the registration endpoint's reply. Errors maps
// field names to messages when validation fails.
type RegisterResponse struct {
	Status string              `json:"status"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload Registration
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, RegisterResponse{
			Status: "error",
			Errors: map[string][]string{"_": {"request body is not valid JSON"}},
		})
		return
	}

	// Server-side validation runs the same tag rules as the client.
	f := form.New(payload)
	if !f.Validate() {
		writeJSON(w, http.StatusUnprocessableEntity, RegisterResponse{
			Status: "invalid",
			Errors: f.Errors(),
		})
		return
	}

	// The demo has no user store; "taken" usernames are simulated.
	if payload.Username == "admin" {
		writeJSON(w, http.StatusUnprocessableEntity, RegisterResponse{
			Status: "invalid",
			Errors: map[string][]string{"username": {"This username is already taken"}},
		})
		return
	}

	s.logger.Info("registration accepted", "username", payload.Username)
	writeJSON(w, http.StatusCreated, RegisterResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
