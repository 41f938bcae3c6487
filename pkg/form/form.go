package form

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/bastion-ui/bastion/pkg/reactive"
)

// Form is a type-safe form state holder with client- and server-side
// validation. Field names come from `form` struct tags (falling back to
// the lowercased field name); `validate` tags declare the client-side
// rules.
type Form[T any] struct {
	initial    T
	values     *reactive.Signal[T]
	errors     *reactive.Signal[map[string][]string]
	touched    *reactive.Signal[map[string]bool]
	dirty      *reactive.Signal[map[string]bool]
	submitting *reactive.Signal[bool]

	mu         sync.RWMutex
	validators map[string][]Validator
	fields     map[string]int // field name -> struct field index
}

// New creates a Form bound to the given struct value. The initial value
// is used as the default state and for Reset.
func New[T any](initial T) *Form[T] {
	f := &Form[T]{
		initial:    initial,
		values:     reactive.NewSignal(initial),
		errors:     reactive.NewSignal(map[string][]string{}),
		touched:    reactive.NewSignal(map[string]bool{}),
		dirty:      reactive.NewSignal(map[string]bool{}),
		submitting: reactive.NewSignal(false),
		validators: make(map[string][]Validator),
		fields:     make(map[string]int),
	}
	f.parseStructTags(reflect.TypeOf(initial))
	return f
}

func (f *Form[T]) parseStructTags(t reflect.Type) {
	if t == nil {
		return
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get("form")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		if name == "-" {
			continue
		}

		f.fields[name] = i
		if tag := field.Tag.Get("validate"); tag != "" {
			f.validators[name] = parseValidateTag(tag)
		}
	}
}

// Values returns the current form values.
func (f *Form[T]) Values() T {
	return f.values.Get()
}

// Get returns the value of a single field by name.
func (f *Form[T]) Get(field string) any {
	f.mu.RLock()
	idx, ok := f.fields[field]
	f.mu.RUnlock()
	if !ok {
		return nil
	}

	v := reflect.ValueOf(f.values.Get())
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	fv := v.Field(idx)
	if !fv.CanInterface() {
		return nil
	}
	return fv.Interface()
}

// Set updates a single field value and marks it dirty.
func (f *Form[T]) Set(field string, value any) {
	f.mu.RLock()
	idx, ok := f.fields[field]
	f.mu.RUnlock()
	if !ok {
		return
	}

	f.values.Update(func(current T) T {
		v := reflect.ValueOf(&current).Elem()
		if v.Kind() != reflect.Struct {
			return current
		}
		fv := v.Field(idx)
		nv := reflect.ValueOf(value)
		if fv.CanSet() && nv.IsValid() && nv.Type().ConvertibleTo(fv.Type()) {
			fv.Set(nv.Convert(fv.Type()))
		}
		return current
	})

	f.dirty.Update(func(m map[string]bool) map[string]bool {
		return copyWith(m, field, true)
	})
}

// Reset restores the form to its initial values and clears all state.
func (f *Form[T]) Reset() {
	f.values.Set(f.initial)
	f.errors.Set(map[string][]string{})
	f.touched.Set(map[string]bool{})
	f.dirty.Set(map[string]bool{})
	f.submitting.Set(false)
}

// AddValidators registers validators for a field programmatically, in
// addition to any declared via struct tags.
func (f *Form[T]) AddValidators(field string, validators ...Validator) *Form[T] {
	f.mu.Lock()
	f.validators[field] = append(f.validators[field], validators...)
	f.mu.Unlock()
	return f
}

// Validate runs all client-side validators and reports whether the form
// is valid. Errors replace any previously stored validation errors.
func (f *Form[T]) Validate() bool {
	f.mu.RLock()
	names := make([]string, 0, len(f.validators))
	for field := range f.validators {
		names = append(names, field)
	}
	f.mu.RUnlock()

	allErrors := make(map[string][]string)
	for _, field := range names {
		if msgs := f.runValidators(field); len(msgs) > 0 {
			allErrors[field] = msgs
		}
	}

	f.errors.Set(allErrors)
	return len(allErrors) == 0
}

// ValidateField validates one field and reports whether it is valid.
// The field is marked touched.
func (f *Form[T]) ValidateField(field string) bool {
	msgs := f.runValidators(field)

	f.errors.Update(func(m map[string][]string) map[string][]string {
		out := make(map[string][]string, len(m)+1)
		for k, v := range m {
			out[k] = v
		}
		if len(msgs) > 0 {
			out[field] = msgs
		} else {
			delete(out, field)
		}
		return out
	})
	f.touched.Update(func(m map[string]bool) map[string]bool {
		return copyWith(m, field, true)
	})

	return len(msgs) == 0
}

func (f *Form[T]) runValidators(field string) []string {
	f.mu.RLock()
	validators := f.validators[field]
	f.mu.RUnlock()

	value := f.Get(field)
	var msgs []string
	for _, v := range validators {
		if err := v.Validate(value); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

// ApplyRemoteErrors merges per-field errors returned by a server-side
// validation endpoint into the form state. Existing client-side errors
// for other fields are preserved.
func (f *Form[T]) ApplyRemoteErrors(remote map[string][]string) {
	if len(remote) == 0 {
		return
	}
	f.errors.Update(func(m map[string][]string) map[string][]string {
		out := make(map[string][]string, len(m)+len(remote))
		for k, v := range m {
			out[k] = v
		}
		for k, v := range remote {
			out[k] = append(out[k], v...)
		}
		return out
	})
}

// ErrInvalid is returned by Submit when client-side validation fails and
// the submit function is never invoked.
var ErrInvalid = errors.New("form has validation errors")

// RemoteValidationError is returned by a submit function when the server
// rejected the payload with per-field errors.
type RemoteValidationError struct {
	Fields map[string][]string
}

func (e *RemoteValidationError) Error() string {
	return "server rejected the submitted values"
}

// Submit runs the client/server validation flow: client-side validation
// first, then fn with the current values while the submitting flag is
// set. A *RemoteValidationError from fn is merged into field errors and
// returned; any other error is returned untouched. Errors from fn are
// form data, never render crashes.
func (f *Form[T]) Submit(ctx context.Context, fn func(ctx context.Context, values T) error) error {
	if !f.Validate() {
		return ErrInvalid
	}

	f.submitting.Set(true)
	defer f.submitting.Set(false)

	err := fn(ctx, f.Values())
	if err == nil {
		return nil
	}

	var remote *RemoteValidationError
	if errors.As(err, &remote) {
		f.ApplyRemoteErrors(remote.Fields)
	}
	return err
}

// Errors returns all validation errors keyed by field name.
func (f *Form[T]) Errors() map[string][]string {
	return f.errors.Get()
}

// FieldErrors returns validation errors for a specific field.
func (f *Form[T]) FieldErrors(field string) []string {
	return f.errors.Get()[field]
}

// HasError reports whether the field has any validation errors.
func (f *Form[T]) HasError(field string) bool {
	return len(f.errors.Get()[field]) > 0
}

// SetError manually appends an error message for a field.
func (f *Form[T]) SetError(field, msg string) {
	f.errors.Update(func(m map[string][]string) map[string][]string {
		out := make(map[string][]string, len(m)+1)
		for k, v := range m {
			out[k] = v
		}
		out[field] = append(out[field], msg)
		return out
	})
}

// ClearErrors removes all validation errors.
func (f *Form[T]) ClearErrors() {
	f.errors.Set(map[string][]string{})
}

// IsValid reports whether the form currently has no validation errors.
func (f *Form[T]) IsValid() bool {
	return len(f.errors.Get()) == 0
}

// IsDirty reports whether any field has been modified.
func (f *Form[T]) IsDirty() bool {
	return len(f.dirty.Get()) > 0
}

// IsTouched reports whether the field has been interacted with.
func (f *Form[T]) IsTouched(field string) bool {
	return f.touched.Get()[field]
}

// IsSubmitting reports whether a submit is in progress.
func (f *Form[T]) IsSubmitting() bool {
	return f.submitting.Get()
}

func copyWith(m map[string]bool, key string, value bool) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
