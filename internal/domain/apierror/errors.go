package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies why an upstream call (or location lookup) failed.
type Kind int

const (
	// KindAPI is the catch-all for upstream failures that fit no other kind.
	KindAPI Kind = iota
	KindAuthentication
	KindInvalidRequest
	KindRateLimit
	KindUnavailable
	KindAddress
)

// String returns the stable name of the kind, as exposed to callers.
func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindInvalidRequest:
		return "INVALID_REQUEST_ERROR"
	case KindRateLimit:
		return "RATE_LIMIT_ERROR"
	case KindUnavailable:
		return "API_UNAVAILABLE_ERROR"
	case KindAddress:
		return "ADDRESS_ERROR"
	default:
		return "API_ERROR"
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrAPI            = &Error{Kind: KindAPI, Message: "api error"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "authentication error"}
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest, Message: "invalid request"}
	ErrRateLimit      = &Error{Kind: KindRateLimit, Message: "rate limit exceeded"}
	ErrUnavailable    = &Error{Kind: KindUnavailable, Message: "api unavailable"}
	ErrAddress        = &Error{Kind: KindAddress, Message: "address error"}
)

// Error is the single error type produced by the provider and geocoding gateways.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrRateLimit) works
// regardless of message or status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NewAuthenticationError(message string, status int) *Error {
	return &Error{Kind: KindAuthentication, Message: message, StatusCode: status}
}

func NewInvalidRequestError(message string, status int) *Error {
	return &Error{Kind: KindInvalidRequest, Message: message, StatusCode: status}
}

func NewRateLimitError(message string, status int) *Error {
	return &Error{Kind: KindRateLimit, Message: message, StatusCode: status}
}

func NewUnavailableError(message string, status int, cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, StatusCode: status, Cause: cause}
}

func NewAPIError(message string, status int) *Error {
	return &Error{Kind: KindAPI, Message: message, StatusCode: status}
}

func NewAddressError(message string) *Error {
	return &Error{Kind: KindAddress, Message: message}
}

// FromStatus classifies a non-2xx upstream HTTP status.
func FromStatus(status int, message string) *Error {
	switch {
	case status == 401 || status == 403:
		return NewAuthenticationError(fmt.Sprintf("API Authentication Error: %s", message), status)
	case status == 400 || status == 404:
		return NewInvalidRequestError(fmt.Sprintf("API Invalid Request: %s", message), status)
	case status == 429:
		return NewRateLimitError(fmt.Sprintf("API Rate Limit Exceeded: %s", message), status)
	case status >= 500 && status <= 599:
		return NewUnavailableError(fmt.Sprintf("API Unavailable: %s", message), status, nil)
	default:
		return NewAPIError(fmt.Sprintf("API Error: %d - %s", status, message), status)
	}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindAPI with ok=false when err is not classified.
func KindOf(err error) (Kind, bool) {
	if apiErr, ok := As(err); ok {
		return apiErr.Kind, true
	}
	return KindAPI, false
}

// IsAPIError reports whether err is an upstream weather API failure of any kind.
// Address errors come from location lookup and are not API errors.
func IsAPIError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind != KindAddress
}
