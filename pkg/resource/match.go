package resource

import "github.com/bastion-ui/bastion/pkg/view"

// Handler renders a specific resource status.
type Handler[T any] interface {
	handle(*Resource[T]) (*view.Node, bool)
}

type handlerFunc[T any] func(*Resource[T]) (*view.Node, bool)

func (f handlerFunc[T]) handle(r *Resource[T]) (*view.Node, bool) {
	return f(r)
}

// Match renders the first handler matching the current status. Returns nil
// when no handler matches.
func (r *Resource[T]) Match(handlers ...Handler[T]) *view.Node {
	for _, h := range handlers {
		if node, ok := h.handle(r); ok {
			return node
		}
	}
	return nil
}

// OnIdle renders before the first request.
func OnIdle[T any](fn func() *view.Node) Handler[T] {
	return handlerFunc[T](func(r *Resource[T]) (*view.Node, bool) {
		if r.Status() != Idle {
			return nil, false
		}
		return fn(), true
	})
}

// OnPending renders while a fetch is in flight.
func OnPending[T any](fn func() *view.Node) Handler[T] {
	return handlerFunc[T](func(r *Resource[T]) (*view.Node, bool) {
		if r.Status() != Pending {
			return nil, false
		}
		return fn(), true
	})
}

// OnSucceeded renders the decoded value.
func OnSucceeded[T any](fn func(T) *view.Node) Handler[T] {
	return handlerFunc[T](func(r *Resource[T]) (*view.Node, bool) {
		value, ok := r.Value()
		if !ok {
			return nil, false
		}
		return fn(value), true
	})
}

// OnFailed renders the captured failure.
func OnFailed[T any](fn func(error) *view.Node) Handler[T] {
	return handlerFunc[T](func(r *Resource[T]) (*view.Node, bool) {
		err := r.Failure()
		if err == nil {
			return nil, false
		}
		return fn(err), true
	})
}

// OnUnresolved renders while the resource has no result yet, matching both
// Idle and Pending.
func OnUnresolved[T any](fn func() *view.Node) Handler[T] {
	return handlerFunc[T](func(r *Resource[T]) (*view.Node, bool) {
		s := r.Status()
		if s != Idle && s != Pending {
			return nil, false
		}
		return fn(), true
	})
}
