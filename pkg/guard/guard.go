package guard

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/bastion-ui/bastion/pkg/view"
)

// Crash describes a panic captured while rendering the guarded subtree.
type Crash struct {
	// Value is the recovered panic value.
	Value any

	// Message is the panic value formatted as text.
	Message string

	// Stack is the goroutine stack at the point of capture.
	Stack []byte

	// At is the capture time.
	At time.Time
}

// Fallback produces the substitute output shown after a capture.
type Fallback func(Crash) *view.Node

// Guard wraps a component and converts a panic raised during its render
// into a captured terminal state. Once captured, the guard renders the
// fallback on every call and never invokes the wrapped component again
// until Reset.
//
// Only panics raised while producing output are captured. Failures in
// event handlers or asynchronous callbacks are not render crashes; route
// those into the resource layer's failure state instead.
type Guard struct {
	comp     view.Component
	fallback Fallback

	mu       sync.Mutex
	captured bool
	crash    Crash

	logger    *slog.Logger
	onCapture func(Crash)
}

// Wrap guards a component with a fallback producer. A nil fallback
// renders nothing after a capture.
func Wrap(comp view.Component, fallback Fallback) *Guard {
	return &Guard{
		comp:     comp,
		fallback: fallback,
		logger:   slog.Default().With("component", "guard"),
	}
}

// WrapFunc guards a render function.
func WrapFunc(render func() *view.Node, fallback Fallback) *Guard {
	return Wrap(view.Func(render), fallback)
}

// WithLogger sets the logger used when a crash is captured.
func (g *Guard) WithLogger(logger *slog.Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// OnCapture registers a callback invoked once per capture.
func (g *Guard) OnCapture(fn func(Crash)) *Guard {
	g.onCapture = fn
	return g
}

// Render produces the wrapped component's output, or the fallback if a
// crash has been captured. A panic during the wrapped render is caught
// here, captured exactly once, and never propagated to the caller.
func (g *Guard) Render() *view.Node {
	g.mu.Lock()
	if g.captured {
		crash := g.crash
		g.mu.Unlock()
		return g.renderFallback(crash)
	}
	g.mu.Unlock()

	node, crash, crashed := g.attempt()
	if !crashed {
		return node
	}

	g.mu.Lock()
	first := !g.captured
	if first {
		g.captured = true
		g.crash = crash
	} else {
		crash = g.crash
	}
	g.mu.Unlock()

	if first {
		g.logger.Error("render crash captured",
			"panic", crash.Value,
			"stack", string(crash.Stack))
		if g.onCapture != nil {
			g.onCapture(crash)
		}
	}

	return g.renderFallback(crash)
}

// attempt runs the wrapped render inside a recover bracket.
func (g *Guard) attempt() (node *view.Node, crash Crash, crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			crashed = true
			crash = Crash{
				Value:   r,
				Message: fmt.Sprintf("%v", r),
				Stack:   debug.Stack(),
				At:      time.Now(),
			}
		}
	}()

	node = g.comp.Render()
	return node, crash, false
}

func (g *Guard) renderFallback(crash Crash) *view.Node {
	if g.fallback == nil {
		return nil
	}
	return g.fallback(crash)
}

// Captured reports whether a crash has been captured.
func (g *Guard) Captured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captured
}

// Crash returns the captured crash detail. ok is false until a capture
// occurs.
func (g *Guard) Crash() (crash Crash, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.crash, g.captured
}

// Reset clears the captured state so the wrapped subtree renders again.
// Recovery is always externally driven: the guard decides when to show
// the fallback, never when to come back from it.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.captured = false
	g.crash = Crash{}
	g.mu.Unlock()
}
