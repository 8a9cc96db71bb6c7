package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	// ErrCredentialNotFound means no stored credential matches the
	// repository base URL. The caller recovers by prompting.
	ErrCredentialNotFound = errors.New("no stored credential for repository")

	// ErrEmptyToken means the login succeeded at the HTTP level but the
	// response carried no access token.
	ErrEmptyToken = errors.New("server returned empty access token")

	// ErrMalformedResponse means a success body could not be parsed
	// into the expected shape.
	ErrMalformedResponse = errors.New("malformed server response")

	// ErrNotArmoryURL means the download URL does not point at an
	// armory host; such downloads proceed without authentication.
	ErrNotArmoryURL = errors.New("not an armory URL")
)

// AuthError is returned when the login endpoint answers with a
// non-success status. It keeps the raw body for diagnostics.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login rejected with status %d: %s", e.Status, e.Body)
}

// DownloadError is returned when the download endpoint answers with a
// non-success status.
type DownloadError struct {
	Status int
	Body   string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed with status %d: %s", e.Status, e.Body)
}
