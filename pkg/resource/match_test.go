package resource

import (
	"context"
	"testing"
	"time"

	"github.com/bastion-ui/bastion/pkg/view"
)

func TestMatchSucceeded(t *testing.T) {
	done := make(chan struct{})
	r := New[user](jsonClient(map[string]*Response{
		"users/1": {StatusCode: 200, Body: []byte(`{"name":"Ann"}`)},
	})).OnSuccess(func(user) { close(done) })
	r.Request("users/1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for success")
	}

	node := r.Match(
		OnPending[user](func() *view.Node { return view.Text("loading") }),
		OnFailed[user](func(err error) *view.Node { return view.Text(err.Error()) }),
		OnSucceeded[user](func(u user) *view.Node { return view.Text(u.Name) }),
	)

	if node == nil || node.Text != "Ann" {
		t.Fatalf("Match() = %+v, want text node Ann", node)
	}
}

func TestMatchFailed(t *testing.T) {
	done := make(chan struct{})
	r := New[user](jsonClient(nil)).OnFailure(func(error) { close(done) })
	r.Request("users/1")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for failure")
	}

	node := r.Match(
		OnSucceeded[user](func(u user) *view.Node { return view.Text(u.Name) }),
		OnFailed[user](func(err error) *view.Node { return view.Text(err.Error()) }),
	)

	if node == nil || node.Text == "" {
		t.Fatal("Match() did not render the failure arm")
	}
}

func TestMatchPendingAndIdle(t *testing.T) {
	release := make(chan struct{})
	applied := make(chan struct{})
	client := ClientFunc(func(context.Context, string) (*Response, error) {
		<-release
		return &Response{StatusCode: 200, Body: []byte(`{}`)}, nil
	})

	r := New[user](client).OnSuccess(func(user) { close(applied) })

	node := r.Match(OnIdle[user](func() *view.Node { return view.Text("idle") }))
	if node == nil || node.Text != "idle" {
		t.Fatalf("Match() before request = %+v, want idle", node)
	}

	r.Request("users/1")
	node = r.Match(
		OnUnresolved[user](func() *view.Node { return view.Text("waiting") }),
		OnSucceeded[user](func(u user) *view.Node { return view.Text(u.Name) }),
	)
	if node == nil || node.Text != "waiting" {
		t.Fatalf("Match() while pending = %+v, want waiting", node)
	}

	close(release)
	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for success")
	}
}

func TestMatchNoHandlerMatches(t *testing.T) {
	r := New[user](jsonClient(nil))

	node := r.Match(
		OnFailed[user](func(err error) *view.Node { return view.Text("err") }),
	)
	if node != nil {
		t.Errorf("Match() = %+v, want nil when no handler matches", node)
	}
}
