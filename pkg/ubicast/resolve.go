package ubicast

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Media is a fully resolved link: the stable identity of the object
// plus every rendition the server offers for it.
type Media struct {
	OID         string
	Title       string
	Duration    string
	Tracks      []Track
	AudioTracks []AudioTrack
}

// Resolve turns a user-supplied link into a Media. Rejected
// credentials surface as AuthError; every other failure is a
// ResolutionError naming the link. Resolving the same link twice
// yields the same object.
func (c *Client) Resolve(ctx context.Context, link string) (*Media, error) {
	ref, err := ParseLink(link)
	if err != nil {
		return nil, ResolutionError{Link: link, Reason: "cannot parse link", err: err}
	}
	var info *MediaInfo
	if ref.OID != "" {
		info, err = c.MediaByOID(ctx, ref.OID)
	} else {
		info, err = c.MediaBySlug(ctx, ref.Slug)
	}
	if err != nil {
		return nil, resolutionFailure(link, "cannot look up media", err)
	}
	tracks, audio, err := c.Modes(ctx, info.OID)
	if err != nil {
		return nil, resolutionFailure(link, "cannot list media modes", err)
	}
	if len(tracks) == 0 && len(audio) == 0 {
		return nil, ResolutionError{Link: link, Reason: "media has no playable tracks"}
	}
	return &Media{
		OID:         info.OID,
		Title:       info.Title,
		Duration:    info.Duration,
		Tracks:      tracks,
		AudioTracks: audio,
	}, nil
}

func resolutionFailure(link, reason string, err error) error {
	var auth AuthError
	if errors.As(err, &auth) {
		return auth
	}
	return ResolutionError{Link: link, Reason: reason, err: err}
}

// TrackNames lists the video rendition names in server order.
func (m *Media) TrackNames() []string {
	names := make([]string, 0, len(m.Tracks))
	for _, track := range m.Tracks {
		names = append(names, track.Name)
	}
	return names
}

// SelectTrack picks the video rendition to download. An empty name
// selects the best available track by height; a non-empty name must
// match exactly.
func (m *Media) SelectTrack(name string) (*Track, error) {
	if name != "" {
		for i := range m.Tracks {
			if m.Tracks[i].Name == name {
				return &m.Tracks[i], nil
			}
		}
		return nil, fmt.Errorf("no video track named %q, available: %s", name, strings.Join(m.TrackNames(), ", "))
	}
	if len(m.Tracks) == 0 {
		return nil, errors.New("media has no video tracks")
	}
	best := 0
	for i := 1; i < len(m.Tracks); i++ {
		if m.Tracks[i].rank() > m.Tracks[best].rank() {
			best = i
		}
	}
	return &m.Tracks[best], nil
}

// AudioTrack returns the separate audio rendition at index i, or nil
// when the media carries no separate audio. A negative index disables
// audio outright.
func (m *Media) AudioTrack(i int) (*AudioTrack, error) {
	if i < 0 {
		return nil, nil
	}
	if len(m.AudioTracks) == 0 {
		if i == 0 {
			return nil, nil
		}
		return nil, errNoAudioTracks
	}
	if i >= len(m.AudioTracks) {
		return nil, fmt.Errorf("audio track %d does not exist, media has %d audio tracks", i, len(m.AudioTracks))
	}
	return &m.AudioTracks[i], nil
}
