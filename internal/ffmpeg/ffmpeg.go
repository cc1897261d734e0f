package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBinary = "ffmpeg"

// ErrToolNotFound is returned when the converter binary cannot be
// found on PATH. Callers report it per media instead of aborting.
var ErrToolNotFound = errors.New("converter binary not found in PATH")

// ConversionError carries the exit failure and the tail of stderr,
// which is where ffmpeg explains itself.
type ConversionError struct {
	Stderr string
	err    error
}

func (c ConversionError) Error() string {
	if c.Stderr == "" {
		return fmt.Sprintf("conversion failed: %v", c.err)
	}
	return fmt.Sprintf("conversion failed: %v: %s", c.err, c.Stderr)
}

func (c ConversionError) Unwrap() error {
	return c.err
}

type Option func(c *Converter)

// WithBinary overrides the binary name or path.
func WithBinary(binary string) Option {
	return func(c *Converter) {
		c.binary = binary
	}
}

// WithTranscode re-encodes to H.264/AAC instead of copying streams.
func WithTranscode() Option {
	return func(c *Converter) {
		c.transcode = true
	}
}

// Converter drives an external ffmpeg binary. Streams are copied by
// default, so changing containers costs no quality.
type Converter struct {
	binary    string
	transcode bool
}

func New(options ...Option) *Converter {
	c := &Converter{binary: DefaultBinary}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Args returns the argument list for muxing inputs into output.
// Inputs may be local paths or network URLs.
func (c *Converter) Args(inputs []string, output string) []string {
	args := []string{"-nostdin", "-hide_banner", "-y"}
	for _, input := range inputs {
		args = append(args, "-i", input)
	}
	if c.transcode {
		args = append(args, "-c:v", "libx264", "-preset", "veryfast", "-crf", "23", "-c:a", "aac")
	} else {
		args = append(args, "-c", "copy")
	}
	return append(args, output)
}

// Convert runs the binary over inputs and writes output through a
// hidden temporary file, so a failed run never leaves a bogus final
// file behind.
func (c *Converter) Convert(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return errors.New("no inputs to convert")
	}
	binary, err := exec.LookPath(c.binary)
	if err != nil {
		return fmt.Errorf("%q: %w", c.binary, ErrToolNotFound)
	}
	tmp := filepath.Join(filepath.Dir(output), fmt.Sprintf(".convert-%.8s%s", uuid.NewString(), filepath.Ext(output)))
	args := c.Args(inputs, tmp)
	zap.L().Debug("Running converter",
		zap.String("binary", binary),
		zap.Strings("args", args),
	)
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return ConversionError{Stderr: tailLines(stderr.String(), 8), err: err}
	}
	if err := os.Rename(tmp, output); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed moving %s into place: %w", tmp, err)
	}
	return nil
}

// tailLines keeps the last n lines of the converter's stderr for
// error reporting.
func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
