package httpapi

import (
	"encoding/json"
	"net/http"
)

// Fixed error codes exposed to API clients. Component failures are
// reported with a not-found-class status and one of these codes as a
// plain-text body, matching what the web client expects.
const (
	codeUnknownError     = "UNKNOWN_ERROR"
	codeUserNotFound     = "USER_NOT_FOUND"
	codeUsernameMissing  = "USERNAME_OR_PASSWORD_MISSING"
	codeUsernameTaken    = "USERNAME_NOT_AVAILABLE"
	codeTokenExpired     = "TOKEN_EXPIRED"
	codeInvalidToken     = "INVALID_TOKEN"
	codeNoImageSupplied  = "NO_IMAGE_SUPPLIED"
	codeNoAvailableMusic = "NO_AVAILABLE_MUSIC"
	codeAlbumNotFound    = "ALBUM_NOT_FOUND"
	codePlaylistNotFound = "PLAYLIST_NOT_FOUND"
	codeAccessDenied     = "ACCESS_DENIED"
	codeRateLimited      = "RATE_LIMITED"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeCode sends an error code as a plain-text body with 404. All
// component-level failures share the not-found-class status; the code
// string carries the actual meaning.
func writeCode(w http.ResponseWriter, code string) {
	writeCodeStatus(w, http.StatusNotFound, code)
}

func writeCodeStatus(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(code))
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
