package ubicast

import (
	"context"
	"fmt"
	"net/url"
)

// MediaInfo is the subset of the medias/get response this tool
// depends on. Extra fields from the server are ignored.
type MediaInfo struct {
	OID      string `json:"oid"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Duration string `json:"duration"`
	Type     string `json:"type"`
}

type mediaGetResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Info    MediaInfo `json:"info"`
}

// MediaByOID fetches metadata for a known object ID.
func (c *Client) MediaByOID(ctx context.Context, oid string) (*MediaInfo, error) {
	return c.getMedia(ctx, "oid", oid)
}

// MediaBySlug fetches metadata for the trailing slug of a video link.
func (c *Client) MediaBySlug(ctx context.Context, slug string) (*MediaInfo, error) {
	return c.getMedia(ctx, "slug", slug)
}

func (c *Client) getMedia(ctx context.Context, key, value string) (*MediaInfo, error) {
	params := url.Values{}
	params.Set(key, value)
	var response mediaGetResponse
	if err := c.call(ctx, "medias/get", params, &response); err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, apiRefusalError{endpoint: "medias/get", message: response.Error}
	}
	if response.Info.OID == "" {
		return nil, fmt.Errorf("medias/get response is missing an oid")
	}
	return &response.Info, nil
}
