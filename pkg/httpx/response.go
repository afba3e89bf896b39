package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
)

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteSDKError renders an SDK error with the HTTP status it carries. The
// error field is the error kind; non-SDK errors become "internal".
//
//	{"error": "business", "error_description": "The user doesn't exist"}
func WriteSDKError(w http.ResponseWriter, err error) {
	kind := "internal"
	if k := casdoor.KindOf(err); k != 0 {
		kind = k.String()
	}
	WriteJSON(w, casdoor.StatusCode(err), map[string]string{
		"error":             kind,
		"error_description": err.Error(),
	})
}

// ParseSpaceDelimitedFields splits a space-delimited string such as a scope
// claim. Returns nil if the input is empty or whitespace.
func ParseSpaceDelimitedFields(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
