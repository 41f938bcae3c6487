package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bastion-ui/bastion/pkg/form"
	"github.com/bastion-ui/bastion/pkg/guard"
	"github.com/bastion-ui/bastion/pkg/resource"
	"github.com/bastion-ui/bastion/pkg/view"
)

// Scenario walks the three demo panels (data fetch with retry, the
// registration form, and the crash boundary) against a running demo
// server.
type Scenario struct {
	BaseURL string
	Logger  *slog.Logger

	// Timeout bounds each wait on an asynchronous transition.
	Timeout time.Duration
}

// Run executes the full scenario and returns the first unexpected
// outcome.
func (s *Scenario) Run(ctx context.Context) error {
	if s.Logger == nil {
		s.Logger = slog.Default().With("component", "scenario")
	}
	if s.Timeout == 0 {
		s.Timeout = 5 * time.Second
	}

	if err := s.fetchAndRetry(ctx); err != nil {
		return fmt.Errorf("fetch panel: %w", err)
	}
	if err := s.registrationFlow(ctx); err != nil {
		return fmt.Errorf("form panel: %w", err)
	}
	if err := s.crashBoundary(); err != nil {
		return fmt.Errorf("guard panel: %w", err)
	}
	return nil
}

// fetchAndRetry exercises the resource state machine: a successful
// fetch, a failing fetch surfaced as data, and a manual retry.
func (s *Scenario) fetchAndRetry(ctx context.Context) error {
	client := resource.NewHTTPClient(nil)

	r := resource.New[User](client).
		WithContext(ctx).
		WithLogger(s.Logger).
		OnTransition(func(tr resource.Transition) {
			s.Logger.Info("resource transition",
				"from", tr.From.String(),
				"to", tr.To.String(),
				"generation", tr.Generation)
		})

	r.Request(s.BaseURL + "/api/users/1")
	if !s.await(func() bool { return r.IsSucceeded() }) {
		return fmt.Errorf("expected success, status %v", r.Status())
	}

	node := r.Match(
		resource.OnPending[User](func() *view.Node { return view.Text("loading…") }),
		resource.OnFailed[User](func(err error) *view.Node { return view.Text(err.Error()) }),
		resource.OnSucceeded[User](func(u User) *view.Node { return view.Text("Hello, " + u.Name) }),
	)
	s.Logger.Info("rendered", "text", node.Text)

	// A 500 from the backend becomes Failed state, not a crash.
	r.Request(s.BaseURL + "/api/users/1?status=500")
	if !s.await(func() bool { return r.IsFailed() }) {
		return fmt.Errorf("expected failure, status %v", r.Status())
	}
	s.Logger.Info("fetch failed as data", "error", r.Failure())

	// Manual retry against the same key fails again; the demo backend is
	// deterministic. Point the resource back at a healthy key instead.
	r.Retry()
	if !s.await(func() bool { return !r.IsPending() }) {
		return fmt.Errorf("retry never settled")
	}
	r.Request(s.BaseURL + "/api/users/2")
	if !s.await(func() bool { return r.IsSucceeded() }) {
		return fmt.Errorf("expected recovery, status %v", r.Status())
	}
	s.Logger.Info("recovered", "user", r.ValueOr(User{}).Name)

	r.Dispose()
	return nil
}

// registrationFlow exercises both validation halves: client-side rules,
// then the server's verdict merged back into the form.
func (s *Scenario) registrationFlow(ctx context.Context) error {
	f := form.New(Registration{})

	// Client side: empty form fails before anything is sent.
	if err := f.Submit(ctx, s.postRegistration); err != form.ErrInvalid {
		return fmt.Errorf("empty form submit: %v, want ErrInvalid", err)
	}

	// Server side: "admin" passes client rules, server rejects it.
	f.Set("username", "admin")
	f.Set("email", "admin@example.com")
	f.Set("password", "hunter2hunter2")
	if err := f.Submit(ctx, s.postRegistration); err == nil {
		return fmt.Errorf("taken username was accepted")
	}
	s.Logger.Info("server rejected", "errors", f.FieldErrors("username"))

	f.ClearErrors()
	f.Set("username", "ann")
	if err := f.Submit(ctx, s.postRegistration); err != nil {
		return fmt.Errorf("valid registration rejected: %w", err)
	}
	s.Logger.Info("registration accepted")
	return nil
}

// postRegistration submits the form values to the demo endpoint and
// converts a field-error response into a RemoteValidationError.
func (s *Scenario) postRegistration(ctx context.Context, values Registration) error {
	body, err := json.Marshal(values)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.BaseURL+"/api/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reply RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &form.RemoteValidationError{Fields: reply.Errors}
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("registration endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// crashBoundary exercises the guard: a subtree that panics on render is
// captured once, stays on the fallback, and comes back after Reset.
func (s *Scenario) crashBoundary() error {
	broken := true
	g := guard.WrapFunc(func() *view.Node {
		if broken {
			panic("demo render crash")
		}
		return view.Text("healthy again")
	}, func(crash guard.Crash) *view.Node {
		return view.Div(view.Class("fallback"), "Something went wrong: "+crash.Message)
	}).WithLogger(s.Logger)

	node := g.Render()
	if !g.Captured() {
		return fmt.Errorf("crash was not captured")
	}
	s.Logger.Info("fallback shown", "children", len(node.Children))

	for i := 0; i < 3; i++ {
		g.Render() // sticky: the subtree is not invoked again
	}

	broken = false
	g.Reset()
	node = g.Render()
	if node == nil || node.Text != "healthy again" {
		return fmt.Errorf("subtree did not recover after reset")
	}
	s.Logger.Info("reset recovered the subtree")
	return nil
}

// await polls cond until it holds or the scenario timeout elapses.
func (s *Scenario) await(cond func() bool) bool {
	deadline := time.Now().Add(s.Timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
