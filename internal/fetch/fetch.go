package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// TransferError describes a failed media download.
type TransferError struct {
	URL        string
	StatusCode int
	Written    int64
	Expected   int64
	err        error
}

func (t TransferError) Error() string {
	switch {
	case t.StatusCode != 0:
		return fmt.Sprintf("failed downloading %s: unexpected status code %d", t.URL, t.StatusCode)
	case t.Expected > 0:
		return fmt.Sprintf("failed downloading %s: got %d of %d bytes", t.URL, t.Written, t.Expected)
	default:
		return fmt.Sprintf("failed downloading %s: %v", t.URL, t.err)
	}
}

func (t TransferError) Unwrap() error {
	return t.err
}

type Option func(f *Fetcher)

// WithTLSVerification toggles certificate checks on media downloads,
// mirroring the API client's policy.
func WithTLSVerification(verify bool) Option {
	return func(f *Fetcher) {
		transport, ok := f.cli.Transport.(*http.Transport)
		if !ok {
			return
		}
		transport.TLSClientConfig.InsecureSkipVerify = !verify
	}
}

// WithTimeout bounds the wait for response headers. Transfers
// themselves may run as long as they need.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		transport, ok := f.cli.Transport.(*http.Transport)
		if !ok {
			return
		}
		transport.ResponseHeaderTimeout = timeout
	}
}

// WithProgress renders a progress bar on stderr while downloading.
func WithProgress(show bool) Option {
	return func(f *Fetcher) {
		f.progress = show
	}
}

// Fetcher streams remote media resources into local files. Its client
// carries no overall timeout since transfers may legitimately run for
// a long time; cancellation comes from the context.
type Fetcher struct {
	cli      *http.Client
	progress bool
}

func New(options ...Option) *Fetcher {
	f := &Fetcher{
		cli: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// Fetch streams rawURL into dest. The body lands in a part-file next
// to dest and is renamed only once the full length arrived, so dest
// never holds a truncated download.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, TransferError{URL: rawURL, err: err}
	}
	zap.L().Info("Downloading",
		zap.String("url", rawURL),
		zap.String("dest", dest),
	)
	resp, err := f.cli.Do(req)
	if err != nil {
		return 0, TransferError{URL: rawURL, err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, TransferError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	part := fmt.Sprintf("%s.%.8s.part", dest, uuid.NewString())
	out, err := os.Create(part)
	if err != nil {
		return 0, fmt.Errorf("failed creating %s: %w", part, err)
	}
	var body io.Reader = resp.Body
	if f.progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, filepath.Base(dest))
		body = io.TeeReader(resp.Body, bar)
	}
	written, err := io.Copy(out, body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && resp.ContentLength > 0 && written != resp.ContentLength {
		err = TransferError{URL: rawURL, Written: written, Expected: resp.ContentLength}
	}
	if err != nil {
		os.Remove(part)
		if transfer, ok := err.(TransferError); ok {
			return written, transfer
		}
		return written, TransferError{URL: rawURL, err: err}
	}
	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return written, fmt.Errorf("failed moving %s into place: %w", part, err)
	}
	zap.L().Debug("Download complete",
		zap.String("dest", dest),
		zap.Int64("bytes", written),
	)
	return written, nil
}
