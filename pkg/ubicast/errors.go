package ubicast

import (
	"errors"
	"fmt"
)

// AuthError is returned when the server rejects the configured API
// key outright.
type AuthError struct {
	StatusCode int
}

func (a AuthError) Error() string {
	return fmt.Sprintf("authentication rejected with status %d: check api_key", a.StatusCode)
}

// ResolutionError is returned when a link cannot be turned into
// playable media. It always names the offending link.
type ResolutionError struct {
	Link   string
	Reason string
	err    error
}

func (r ResolutionError) Error() string {
	if r.err != nil {
		return fmt.Sprintf("failed resolving %q: %s: %v", r.Link, r.Reason, r.err)
	}
	return fmt.Sprintf("failed resolving %q: %s", r.Link, r.Reason)
}

func (r ResolutionError) Unwrap() error {
	return r.err
}

type unexpectedStatusError struct {
	endpoint   string
	statusCode int
}

func (u unexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status code from %s: %d", u.endpoint, u.statusCode)
}

type apiRefusalError struct {
	endpoint string
	message  string
}

func (a apiRefusalError) Error() string {
	if a.message == "" {
		return fmt.Sprintf("%s request was refused by the server", a.endpoint)
	}
	return fmt.Sprintf("%s request was refused by the server: %s", a.endpoint, a.message)
}

var errNoAudioTracks = errors.New("media has no audio tracks")
