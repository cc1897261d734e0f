package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultFile is where the downloader looks for its configuration
// when no --config flag is given.
const DefaultFile = "config.json"

func New() *Config {
	return &Config{
		OutputDirectory: ".",
		Container:       "mp4",
		Timeout:         "1m",
		LogLevel:        "info",
	}
}

// Config holds everything the downloader needs to talk to a Ubicast
// server and write files. Values come from the JSON config file and
// can be overridden through the environment.
type Config struct {
	APIKey          string `json:"api_key" map:"API_KEY"`
	Server          string `json:"ubicast_server" map:"UBICAST_SERVER"`
	Verify          bool   `json:"verify" map:"VERIFY"`
	OutputDirectory string `json:"output_dir" map:"OUTPUT_DIR"`
	Container       string `json:"container" map:"CONTAINER"`
	Timeout         string `json:"timeout" map:"TIMEOUT"`
	KeepSources     bool   `json:"keep_sources" map:"KEEP_SOURCES"`
	LogFile         string `json:"log_file" map:"LOG_FILE"`
	LogLevel        string `json:"log_level" map:"LOG_LEVEL"`
}

func (c Config) Valid() (errs Errors) {
	if c.APIKey == "" {
		errs.Add("api_key is required")
	}
	if c.Server == "" {
		errs.Add("ubicast_server is required")
	} else if serverURL, err := url.Parse(c.Server); err != nil {
		errs.Add(fmt.Sprintf("ubicast_server is not a valid URL: %v", err))
	} else if serverURL.Scheme != "http" && serverURL.Scheme != "https" {
		errs.Add(fmt.Sprintf("ubicast_server must be an http or https URL, got %q", c.Server))
	}
	if c.OutputDirectory == "" {
		errs.Add("output_dir is required")
	}
	if c.Container == "" {
		errs.Add("container is required")
	} else if strings.HasPrefix(c.Container, ".") {
		errs.Add("container must not start with a dot")
	}
	if c.Timeout == "" {
		errs.Add("timeout is required")
	} else if timeout, err := time.ParseDuration(c.Timeout); err != nil {
		errs.Add(fmt.Sprintf("timeout must be a valid duration: %v", err))
	} else if timeout < time.Second {
		errs.Add("timeout must be at least 1 second")
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs.Add(fmt.Sprintf("log_level is invalid: %v", err))
	}
	return
}

// RequestTimeout returns the parsed API request timeout. Callers must
// have checked Valid first; an unparseable value falls back to one
// minute.
func (c Config) RequestTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return time.Minute
	}
	return timeout
}
