package casdoor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

// ============================================================================
// Error Kinds
// ============================================================================

// ErrorKind classifies where an SDKError came from.
type ErrorKind int

const (
	// KindBusiness is a server reply with status "error".
	KindBusiness ErrorKind = iota + 1
	// KindUnknownStatus is a server reply with a status label other than "ok" or "error".
	KindUnknownStatus
	// KindNotFound is a successful reply that is missing a required payload.
	KindNotFound
	// KindInvalidArgument is a request rejected before it was sent.
	KindInvalidArgument
	// KindTransport covers network, timeout and connection failures.
	KindTransport
	// KindSerialization covers JSON and query-string encode/decode failures.
	KindSerialization
	// KindURLParse is a malformed constructed URL.
	KindURLParse
	// KindTokenExchange is a failed OAuth2 authorization-code or refresh grant.
	KindTokenExchange
	// KindJWT is a failed local token verification.
	KindJWT
)

func (k ErrorKind) String() string {
	switch k {
	case KindBusiness:
		return "business"
	case KindUnknownStatus:
		return "unknown_status"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindTransport:
		return "transport"
	case KindSerialization:
		return "serialization"
	case KindURLParse:
		return "url_parse"
	case KindTokenExchange:
		return "token_exchange"
	case KindJWT:
		return "jwt"
	default:
		return "unknown"
	}
}

// ============================================================================
// SDKError
// ============================================================================

// SDKError is returned by every SDK operation. Code is shaped like an HTTP
// status so it can be passed straight through at a service boundary.
type SDKError struct {
	Code int
	Kind ErrorKind
	Msg  string
	Err  error
}

// Error implements the error interface. For server-reported failures the
// message is exactly the envelope's msg, even when that is empty.
func (e *SDKError) Error() string {
	switch {
	case e.Kind == KindBusiness && e.Code != 0 && e.Err == nil:
		return e.Msg
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("casdoor: %s error", e.Kind)
	}
}

func (e *SDKError) Unwrap() error { return e.Err }

// Is matches the kind sentinels below, so errors.Is(err, ErrNotFound) works
// for any not-found SDKError regardless of its message.
func (e *SDKError) Is(target error) bool {
	t, ok := target.(*SDKError)
	if !ok {
		return false
	}
	return t.Code == 0 && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrBusiness        = &SDKError{Kind: KindBusiness}
	ErrUnknownStatus   = &SDKError{Kind: KindUnknownStatus}
	ErrNotFound        = &SDKError{Kind: KindNotFound}
	ErrInvalidArgument = &SDKError{Kind: KindInvalidArgument}
	ErrTransport       = &SDKError{Kind: KindTransport}
	ErrSerialization   = &SDKError{Kind: KindSerialization}
	ErrURLParse        = &SDKError{Kind: KindURLParse}
	ErrTokenExchange   = &SDKError{Kind: KindTokenExchange}
	ErrJWT             = &SDKError{Kind: KindJWT}
)

func newError(code int, kind ErrorKind, msg string) *SDKError {
	return &SDKError{Code: code, Kind: kind, Msg: msg}
}

func wrapError(code int, kind ErrorKind, msg string, err error) *SDKError {
	return &SDKError{Code: code, Kind: kind, Msg: msg, Err: err}
}

// StatusCode returns the HTTP-shaped code carried by err, or 500 when err is
// not an SDKError. A nil error yields 200.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var se *SDKError
	if errors.As(err, &se) && se.Code != 0 {
		return se.Code
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of the first SDKError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var se *SDKError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// IsNotFound reports whether err is a required payload that was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ============================================================================
// Error Mapping Helpers
// ============================================================================

// transportError maps a failed round trip. A response status wins when the
// server answered; otherwise the failure category picks the code.
func transportError(resp *http.Response, err error) *SDKError {
	code := http.StatusInternalServerError

	var netErr net.Error
	var urlErr *url.Error
	switch {
	case resp != nil:
		code = resp.StatusCode
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		code = http.StatusRequestTimeout
	case errors.As(err, &urlErr):
		code = http.StatusBadRequest
	}

	return wrapError(code, KindTransport, "request failed", err)
}

// decodeError maps an undecodable response body.
func decodeError(resp *http.Response, err error) *SDKError {
	code := http.StatusInternalServerError
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		code = resp.StatusCode
	}
	return wrapError(code, KindSerialization, "failed to decode response", err)
}

// tokenExchangeError maps a failed OAuth2 grant.
func tokenExchangeError(err error) *SDKError {
	var retrieveErr *oauth2.RetrieveError
	var urlErr *url.Error
	switch {
	case errors.As(err, &retrieveErr):
		return wrapError(http.StatusInternalServerError, KindTokenExchange, "token endpoint rejected the grant", err)
	case errors.As(err, &urlErr):
		return wrapError(http.StatusBadRequest, KindTokenExchange, "token request failed", err)
	default:
		return wrapError(http.StatusInternalServerError, KindTokenExchange, "token exchange failed", err)
	}
}
