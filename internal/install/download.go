package install

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/itsameandrea/muesliup/internal/messages"
)

// httpClient downloads release assets. The timeout covers the full body read;
// artifacts run to hundreds of megabytes on slow links.
var httpClient = &http.Client{Timeout: 15 * time.Minute}

// maxDownloadBytes caps a single asset download.
var maxDownloadBytes = int64(512 << 20)

// maxChecksumBytes caps the checksum sidecar fetch.
const maxChecksumBytes = 64 << 10

// downloadAsset streams url into a temp file and returns its path. The file
// is removed again on any failure. All failures wrap ErrNetwork so the caller
// can route to the source-build fallback. Single attempt, no retries.
func downloadAsset(ctx context.Context, sys System, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: "+messages.InstallDownloadFailedFmt, ErrNetwork, url, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: "+messages.InstallDownloadFailedFmt, ErrNetwork, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: "+messages.InstallDownloadStatusFmt, ErrNetwork, url, resp.Status)
	}

	tmp, err := sys.CreateTemp("", "muesliup-download-*")
	if err != nil {
		return "", fmt.Errorf(messages.InstallCreateTempFmt, err)
	}
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = sys.Remove(tmp.Name())
		}
	}()

	// Read one byte past the cap so an oversized asset is detected rather
	// than silently truncated.
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: "+messages.InstallDownloadFailedFmt, ErrNetwork, url, err)
	}
	if n > maxDownloadBytes {
		return "", fmt.Errorf("%w: "+messages.InstallDownloadTooLargeFmt, ErrNetwork, url, maxDownloadBytes)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf(messages.InstallCreateTempFmt, err)
	}
	committed = true
	return tmp.Name(), nil
}

// verifyDownload checks the downloaded file against the published checksum
// sidecar. Every failure, including an unfetchable sidecar, wraps
// ErrIntegrity; the caller decides whether that warns or aborts.
func verifyDownload(ctx context.Context, path string, checksumURL string, asset string) error {
	want, err := fetchChecksum(ctx, checksumURL, asset)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	got, err := fileSHA256(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: "+messages.InstallChecksumMismatchFmt, ErrIntegrity, asset, want, got)
	}
	return nil
}

func fetchChecksum(ctx context.Context, url string, asset string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf(messages.InstallChecksumFetchFailedFmt, url, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf(messages.InstallChecksumFetchFailedFmt, url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(messages.InstallDownloadStatusFmt, url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChecksumBytes))
	if err != nil {
		return "", fmt.Errorf(messages.InstallChecksumFetchFailedFmt, url, err)
	}
	return parseChecksumFile(data, asset)
}

// parseChecksumFile finds the hex digest for asset in sha256sum-style
// content: `<hex>  <name>` lines, tolerating `./` and `*` name prefixes and a
// bare single-digest file.
func parseChecksumFile(data []byte, asset string) (string, error) {
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			if isHexDigest(fields[0]) {
				return strings.ToLower(fields[0]), nil
			}
			continue
		}
		name := strings.TrimPrefix(strings.TrimPrefix(fields[1], "./"), "*")
		if name == asset {
			return strings.ToLower(fields[0]), nil
		}
	}
	return "", fmt.Errorf(messages.InstallChecksumParseFmt, asset)
}

func isHexDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
