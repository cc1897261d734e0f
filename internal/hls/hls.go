package hls

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/grafov/m3u8"
	"go.uber.org/zap"
)

// Selector picks the rendition to hand the converter when a media
// track is published as an HLS playlist. The converter pulls the
// segments itself, so only the playlist decision happens here.
type Selector struct {
	cli *http.Client
}

func NewSelector(cli *http.Client) *Selector {
	if cli == nil {
		cli = http.DefaultClient
	}
	return &Selector{cli: cli}
}

// BestVariant fetches playlistURL and returns the URI of its highest
// bandwidth variant. A media playlist selects itself.
func (s *Selector) BestVariant(ctx context.Context, playlistURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, playlistURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.cli.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed fetching playlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code fetching playlist: %d", resp.StatusCode)
	}
	playlist, listType, err := m3u8.DecodeFrom(resp.Body, true)
	if err != nil {
		return "", fmt.Errorf("failed decoding playlist: %w", err)
	}
	if listType == m3u8.MEDIA {
		return playlistURL, nil
	}
	master, ok := playlist.(*m3u8.MasterPlaylist)
	if !ok {
		return "", fmt.Errorf("unsupported playlist type")
	}
	variants := make([]*m3u8.Variant, 0, len(master.Variants))
	for _, variant := range master.Variants {
		if variant != nil {
			variants = append(variants, variant)
		}
	}
	if len(variants) == 0 {
		return "", fmt.Errorf("master playlist has no variants")
	}
	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Bandwidth > variants[j].Bandwidth
	})
	chosen := variants[0]
	zap.L().Debug("Chose playlist variant",
		zap.String("uri", chosen.URI),
		zap.Uint32("bandwidth", chosen.Bandwidth),
	)
	return absoluteURI(playlistURL, chosen.URI)
}

// absoluteURI resolves a possibly relative variant URI against the
// master playlist location.
func absoluteURI(base, uri string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}
