// Package bastion provides the public API for the bastion failure-handling
// primitives.
//
// This is the recommended import for most applications:
//
//	import "github.com/bastion-ui/bastion"
//
// Usage:
//
//	users := bastion.NewResource[User](bastion.NewHTTPClient(nil)).
//	    OnFailure(logFailure)
//	users.Request("https://api.example.com/users/1")
//
//	boundary := bastion.WrapFunc(renderProfile, renderCrashBanner)
//	node := boundary.Render()
package bastion

import (
	"github.com/bastion-ui/bastion/pkg/form"
	"github.com/bastion-ui/bastion/pkg/guard"
	"github.com/bastion-ui/bastion/pkg/reactive"
	"github.com/bastion-ui/bastion/pkg/resource"
	"github.com/bastion-ui/bastion/pkg/view"
)

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// Signal is a reactive value container with explicit subscription.
type Signal[T any] = reactive.Signal[T]

// Unsubscribe removes a signal subscription.
type Unsubscribe = reactive.Unsubscribe

// NewSignal creates a new reactive signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return reactive.NewSignal(initial)
}

// =============================================================================
// Async resources (re-export from pkg/resource)
// =============================================================================

// Resource is a single-flight request/retry coordinator.
type Resource[T any] = resource.Resource[T]

// ResourceStatus is the lifecycle state of a resource.
type ResourceStatus = resource.Status

// Resource lifecycle states.
const (
	Idle      = resource.Idle
	Pending   = resource.Pending
	Succeeded = resource.Succeeded
	Failed    = resource.Failed
)

// Transition describes a resource status change.
type Transition = resource.Transition

// Client is the fetch capability a resource consumes.
type Client = resource.Client

// ClientFunc adapts a function to the Client interface.
type ClientFunc = resource.ClientFunc

// Response is a fetch result: status code plus body.
type Response = resource.Response

// Resource failure taxonomy.
type (
	NetworkError = resource.NetworkError
	StatusError  = resource.StatusError
	DecodeError  = resource.DecodeError
)

// NewResource creates a resource in the Idle state.
func NewResource[T any](client Client) *Resource[T] {
	return resource.New[T](client)
}

// NewHTTPClient wraps an http.Client as a resource Client.
var NewHTTPClient = resource.NewHTTPClient

// Resource match handlers.
func OnIdle[T any](fn func() *Node) resource.Handler[T]      { return resource.OnIdle[T](fn) }
func OnPending[T any](fn func() *Node) resource.Handler[T]   { return resource.OnPending[T](fn) }
func OnFailed[T any](fn func(error) *Node) resource.Handler[T] {
	return resource.OnFailed[T](fn)
}
func OnSucceeded[T any](fn func(T) *Node) resource.Handler[T] {
	return resource.OnSucceeded[T](fn)
}

// =============================================================================
// Render guard (re-export from pkg/guard)
// =============================================================================

// Guard is a render-crash fallback boundary.
type Guard = guard.Guard

// Crash describes a captured render panic.
type Crash = guard.Crash

// Fallback produces the substitute output after a capture.
type Fallback = guard.Fallback

// Wrap guards a component with a fallback producer.
var Wrap = guard.Wrap

// WrapFunc guards a render function.
var WrapFunc = guard.WrapFunc

// =============================================================================
// Forms (re-export from pkg/form)
// =============================================================================

// Form is a type-safe form state holder with validation.
type Form[T any] = form.Form[T]

// Validator checks a single field value.
type Validator = form.Validator

// RemoteValidationError carries per-field errors from a server-side
// validation endpoint.
type RemoteValidationError = form.RemoteValidationError

// ErrInvalid is returned by Form.Submit when client-side validation fails.
var ErrInvalid = form.ErrInvalid

// UseForm creates a form bound to the given struct value.
func UseForm[T any](initial T) *Form[T] {
	return form.New(initial)
}

// Field validators.
var (
	Required  = form.Required
	MinLength = form.MinLength
	MaxLength = form.MaxLength
	Pattern   = form.Pattern
	Email     = form.Email
)

// =============================================================================
// View nodes (re-export from pkg/view)
// =============================================================================

// Node is the presentable output unit.
type Node = view.Node

// Component is anything that renders to a Node.
type Component = view.Component

// Func creates a component from a render function.
var Func = view.Func

// Node constructors.
var (
	El       = view.El
	Text     = view.Text
	Fragment = view.Fragment
	Div      = view.Div
	Span     = view.Span
	Button   = view.Button
	Class    = view.Class
)
