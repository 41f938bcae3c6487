package resource

import "fmt"

// NetworkError reports a transport-level failure: the request never
// produced an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError reports a response with a non-success status code.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request for %s failed with status %d", e.URL, e.Code)
}

// DecodeError reports a response body that could not be decoded into the
// resource's value type.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// failureKind labels a failure for metrics. All three kinds collapse into
// the same Failed status; the label is observability only.
func failureKind(err error) string {
	switch err.(type) {
	case *NetworkError:
		return "network"
	case *StatusError:
		return "status"
	case *DecodeError:
		return "decode"
	default:
		return "other"
	}
}
