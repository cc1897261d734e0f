package ubicast

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// html5Formats is the rendition priority list sent with every modes
// request, matching what the player itself asks for.
const html5Formats = "mp4_mp3_m3u8"

type ClientOption func(c *Client)

// WithTimeout bounds every API call. The default is one minute.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.cli.Timeout = timeout
	}
}

// WithTLSVerification toggles certificate checks. Campus media
// servers commonly run self-signed certificates, so the default is
// off.
func WithTLSVerification(verify bool) ClientOption {
	return func(c *Client) {
		transport, ok := c.cli.Transport.(*http.Transport)
		if !ok {
			return
		}
		transport.TLSClientConfig.InsecureSkipVerify = !verify
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(cli *http.Client) ClientOption {
	return func(c *Client) {
		c.cli = cli
	}
}

// Client talks to the JSON API of a Ubicast media server. The API key
// is attached to every request as a query parameter, which is the
// server's documented authentication scheme.
type Client struct {
	rootURL string
	apiKey  string
	cli     *http.Client
}

func New(rootURL, apiKey string, options ...ClientOption) *Client {
	c := &Client{
		rootURL: strings.TrimRight(rootURL, "/"),
		apiKey:  apiKey,
		cli: &http.Client{
			Timeout: time.Minute,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// HTTPClient exposes the configured HTTP client so neighboring
// requests, like playlist fetches, share the same TLS policy.
func (c *Client) HTTPClient() *http.Client {
	return c.cli
}

func (c *Client) call(ctx context.Context, endpoint string, params url.Values, response interface{}) error {
	params.Set("api_key", c.apiKey)
	callURL := fmt.Sprintf("%s/api/v2/%s/?%s", c.rootURL, endpoint, params.Encode())
	// The URL carries the key, so only the endpoint is logged.
	logger := zap.L().With(zap.String("endpoint", endpoint))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, callURL, nil)
	if err != nil {
		return err
	}
	logger.Debug("Calling API")
	resp, err := c.cli.Do(req)
	if err != nil {
		logger.Error("Failed to call API", zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	logger.Debug("Finished API call", zap.Int("statusCode", resp.StatusCode))
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return unexpectedStatusError{endpoint: endpoint, statusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed decoding %s response: %w", endpoint, err)
	}
	return nil
}
