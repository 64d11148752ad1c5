package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork       = errors.New("network error")
	ErrHTTP          = errors.New("http error")
	ErrDecode        = errors.New("decode error")
	ErrEmptyResponse = errors.New("empty response")
)

type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindNetwork       ErrorKind = "network_error"
	KindHTTP          ErrorKind = "http_error"
	KindDecode        ErrorKind = "decode_error"
	KindEmptyResponse ErrorKind = "empty_response"
	KindUnknown       ErrorKind = "unknown"
)

// HTTPError is returned for any response status outside [200,299].
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.Status)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

// KindOf classifies an error returned by the gateway.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrHTTP):
		return KindHTTP
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// StatusOf returns the response status carried by an HTTPError, or 0.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

func networkError(err error) error {
	return fmt.Errorf("%w: %s", ErrNetwork, err.Error())
}

func decodeError(err error) error {
	return fmt.Errorf("%w: %s", ErrDecode, err.Error())
}
