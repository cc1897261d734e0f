package ubicast

import (
	"errors"
	"fmt"
	"strings"
)

const (
	permalinkMarker = "/permalink/"
	videoMarker     = "/videos/"
)

// Ref is a parsed link: either a direct object ID or a slug that
// still needs an API lookup.
type Ref struct {
	OID  string
	Slug string
}

type unrecognizedLinkError struct {
	link string
}

func (u unrecognizedLinkError) Error() string {
	return fmt.Sprintf("unrecognized link %q: expected a permalink, a video link or a media oid", u.link)
}

var errEmptyLink = errors.New("empty link")

// ParseLink classifies a user-supplied link. Permalinks carry the oid
// in their path, video links carry a slug, and a bare token is taken
// as an oid directly.
func ParseLink(link string) (Ref, error) {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return Ref{}, errEmptyLink
	}
	if i := strings.LastIndex(trimmed, permalinkMarker); i >= 0 {
		oid := strings.ReplaceAll(trimmed[i+len(permalinkMarker):], "/", "")
		if oid == "" {
			return Ref{}, unrecognizedLinkError{link: link}
		}
		return Ref{OID: oid}, nil
	}
	if i := strings.LastIndex(trimmed, videoMarker); i >= 0 {
		slug := strings.ReplaceAll(trimmed[i+len(videoMarker):], "/", "")
		if slug == "" {
			return Ref{}, unrecognizedLinkError{link: link}
		}
		return Ref{Slug: slug}, nil
	}
	if !strings.ContainsAny(trimmed, "/:") {
		return Ref{OID: trimmed}, nil
	}
	return Ref{}, unrecognizedLinkError{link: link}
}
