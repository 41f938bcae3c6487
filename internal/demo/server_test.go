package demo

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer().Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestUserEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Name != "Ann" {
		t.Errorf("Name = %q, want Ann", u.Name)
	}
}

func TestUserEndpointUnknownUser(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/999")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUserEndpointFailureKnobs(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/1?status=500")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("forced status = %d, want 500", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/users/1?garbage=1")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if json.Valid(body) {
		t.Error("garbage knob returned valid JSON")
	}

	start := time.Now()
	resp, err = http.Get(srv.URL + "/api/users/1?delay=50ms")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("delay knob returned after %v, want >= 50ms", elapsed)
	}
}

func postRegister(t *testing.T, url string, payload Registration) (*http.Response, RegisterResponse) {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(url+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var reply RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, reply
}

func TestRegisterValid(t *testing.T) {
	srv := newTestServer(t)

	resp, reply := postRegister(t, srv.URL, Registration{
		Username: "annika",
		Email:    "ann@example.com",
		Password: "longenough",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if reply.Status != "ok" {
		t.Errorf("reply.Status = %q", reply.Status)
	}
}

func TestRegisterFieldErrors(t *testing.T) {
	srv := newTestServer(t)

	resp, reply := postRegister(t, srv.URL, Registration{
		Username: "ab",
		Email:    "nope",
		Password: "short",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	for _, field := range []string{"username", "email", "password"} {
		if len(reply.Errors[field]) == 0 {
			t.Errorf("no error for field %q: %v", field, reply.Errors)
		}
	}
}

func TestRegisterTakenUsername(t *testing.T) {
	srv := newTestServer(t)

	resp, reply := postRegister(t, srv.URL, Registration{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "longenough",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if len(reply.Errors["username"]) == 0 {
		t.Errorf("no username error: %v", reply.Errors)
	}
}

func TestRegisterMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/register", "application/json",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

// TestScenarioEndToEnd drives the full demo front-end against the server.
func TestScenarioEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	s := &Scenario{BaseURL: srv.URL, Timeout: 5 * time.Second}
	if err := s.Run(t.Context()); err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
}
