// URL -> local filename helpers for the dataset cache.
// internal/datasource/httpds/filename.go

package httpds

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
)

// filenameCleaner replaces characters unsafe for filenames with "_". Dots,
// dashes and underscores survive so dataset names keep their extension.
var filenameCleaner = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// HashString returns a stable SHA1 hex digest of s. It is useful for generating
// deterministic identifiers or filenames when a natural key is not available.
func HashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// BaseFilenameFromURL derives a filesystem-safe cache filename from a raw URL
// string, using the final segment of the URL path. A dataset URL such as
// ".../yellow_tripdata_2024-01.parquet" maps to "yellow_tripdata_2024-01.parquet".
//
// It falls back to hashing the entire URL if:
//
//   - the URL cannot be parsed, or
//   - the path has no usable final segment.
func BaseFilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return HashString(rawURL)
	}

	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return HashString(rawURL)
	}

	clean := filenameCleaner.ReplaceAllString(base, "_")
	if clean == "" || clean == "." {
		return HashString(rawURL)
	}

	return clean
}
