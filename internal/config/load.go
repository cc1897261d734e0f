package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/smejjout/ubidl/internal/mapper"
)

// Open reads the JSON configuration file and then applies environment
// overrides on top of it. An empty filename skips the file entirely so
// the downloader can run from the environment alone.
func Open(filename string) (*Config, error) {
	cfg := New()
	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed opening config file: %w", err)
		}
		defer f.Close()
		if err := json.NewDecoder(bufio.NewReader(f)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed decoding config file %s: %w", filename, err)
		}
	}
	dec := mapper.NewDecoder(os.LookupEnv, mapper.WithTagDefaulter(strings.ToUpper))
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed decoding environment: %w", err)
	}
	return cfg, nil
}
