package ubicast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Track is a downloadable video rendition.
type Track struct {
	Name   string
	URL    string
	Format string
	Width  int
	Height int
}

// HLS reports whether the track must be read through its playlist
// instead of a plain download.
func (t Track) HLS() bool {
	return strings.Contains(t.URL, ".m3u8")
}

var digitsRe = regexp.MustCompile(`\d+`)

// rank orders tracks by quality. Servers usually report the height in
// the resource, but older ones only encode it in names like "720p".
func (t Track) rank() int {
	if t.Height > 0 {
		return t.Height
	}
	digits := digitsRe.FindString(t.Name)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// AudioTrack is a separate audio rendition with optional labels.
type AudioTrack struct {
	URL      string `json:"url"`
	Language string `json:"language"`
	Title    string `json:"title"`
}

type modeEntry struct {
	Resource struct {
		URL    string `json:"url"`
		Format string `json:"format"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	} `json:"resource"`
}

// modesDocument decodes the medias/modes response. The response keys
// video renditions by name, so the names list drives a second
// per-entry decoding pass.
type modesDocument struct {
	Success bool
	Error   string
	Names   []string
	Tracks  []Track
	Audio   []AudioTrack
}

func (m *modesDocument) UnmarshalJSON(data []byte) error {
	var header struct {
		Success *bool    `json:"success"`
		Error   string   `json:"error"`
		Names   []string `json:"names"`
		Audio   *struct {
			Tracks []AudioTrack `json:"tracks"`
		} `json:"audio"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	// Older servers omit the success flag entirely.
	m.Success = header.Success == nil || *header.Success
	m.Error = header.Error
	if header.Audio != nil {
		m.Audio = header.Audio.Tracks
	}
	for _, name := range header.Names {
		if name == "audio" {
			continue
		}
		m.Names = append(m.Names, name)
		entry, ok := entries[name]
		if !ok {
			continue
		}
		var mode modeEntry
		if err := json.Unmarshal(entry, &mode); err != nil {
			return fmt.Errorf("failed decoding mode %q: %w", name, err)
		}
		if mode.Resource.URL == "" {
			continue
		}
		m.Tracks = append(m.Tracks, Track{
			Name:   name,
			URL:    mode.Resource.URL,
			Format: mode.Resource.Format,
			Width:  mode.Resource.Width,
			Height: mode.Resource.Height,
		})
	}
	return nil
}

// Modes lists the playable renditions of a media object.
func (c *Client) Modes(ctx context.Context, oid string) ([]Track, []AudioTrack, error) {
	params := url.Values{}
	params.Set("oid", oid)
	params.Set("html5", html5Formats)
	var document modesDocument
	if err := c.call(ctx, "medias/modes", params, &document); err != nil {
		return nil, nil, err
	}
	if !document.Success {
		return nil, nil, apiRefusalError{endpoint: "medias/modes", message: document.Error}
	}
	return document.Tracks, document.Audio, nil
}
