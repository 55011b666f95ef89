package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// FetchResult describes a dataset file on local disk after DownloadFile.
type FetchResult struct {
	Path       string
	Size       int64
	Digest     uint64 // xxh3 of the file content
	Downloaded bool   // false when the file was already present
}

// DownloadFile streams url into destPath unless the file already exists, in
// which case the existing file is hashed and reused. The download goes
// through a temporary ".partial" file renamed into place on success, so an
// aborted transfer never leaves a truncated dataset behind.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string) (FetchResult, error) {
	if st, err := os.Stat(destPath); err == nil && st.Mode().IsRegular() {
		digest, err := hashFile(destPath)
		if err != nil {
			return FetchResult{}, err
		}
		return FetchResult{Path: destPath, Size: st.Size(), Digest: digest}, nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return FetchResult{}, fmt.Errorf("httpds: mkdir for %s: %w", destPath, err)
	}

	resp, err := c.Get(ctx, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("httpds: download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return FetchResult{}, fmt.Errorf("httpds: download %s: status %s", url, resp.Status)
	}

	tmp := destPath + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return FetchResult{}, fmt.Errorf("httpds: create %s: %w", tmp, err)
	}

	hasher := xxh3.New()
	n, err := io.Copy(io.MultiWriter(f, hasher), resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return FetchResult{}, fmt.Errorf("httpds: write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, destPath); err != nil {
		_ = os.Remove(tmp)
		return FetchResult{}, fmt.Errorf("httpds: finalize %s: %w", destPath, err)
	}

	return FetchResult{Path: destPath, Size: n, Digest: hasher.Sum64(), Downloaded: true}, nil
}

// hashFile computes the xxh3 digest of an existing file.
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("httpds: open %s: %w", path, err)
	}
	defer f.Close()

	hasher := xxh3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, fmt.Errorf("httpds: hash %s: %w", path, err)
	}
	return hasher.Sum64(), nil
}
