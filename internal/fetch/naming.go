package fetch

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var forbiddenRe = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeTitle makes a media title safe to use as a file name on
// every platform the files may end up on.
func SanitizeTitle(title string) string {
	return strings.TrimSpace(forbiddenRe.ReplaceAllString(title, " "))
}

// UniquePath returns path if nothing exists there, otherwise the
// first "name (N)" variant that is free, counting from zero.
func UniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for number := 0; ; number++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, number, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// ExtensionFromURL extracts the file extension from a download URL,
// ignoring query parameters. The fallback must carry its dot.
func ExtensionFromURL(rawURL, fallback string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	if ext := path.Ext(parsed.Path); ext != "" {
		return ext
	}
	return fallback
}
