// Package video acquires and normalizes the input footage for analysis.
package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
)

// DefaultDownloadTimeout bounds one yt-dlp invocation.
const DefaultDownloadTimeout = 10 * time.Minute

// IsRemote reports whether the input names a remote video rather than a
// local file path.
func IsRemote(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// Downloader fetches remote videos with the external yt-dlp tool.
type Downloader struct {
	timeout time.Duration
	log     zerolog.Logger
}

// NewDownloader creates a Downloader with the given per-download timeout;
// zero means DefaultDownloadTimeout.
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	return &Downloader{
		timeout: timeout,
		log:     logging.NewLogger("download"),
	}
}

// Download fetches url into dest as an mp4. yt-dlp's stderr is surfaced in
// the error so a failed fetch is diagnosable from the run record.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.log.Info().Str("url", url).Msg("downloading video")

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--format", "bestvideo[ext=mp4]/mp4",
		"--output", dest,
		"--quiet",
		url,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("download timed out after %s", d.timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("yt-dlp failed: %w: %s", err, msg)
		}
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	if _, err := os.Stat(dest); err != nil {
		return fmt.Errorf("download produced no file at %s", dest)
	}

	d.log.Info().Str("path", dest).Msg("video downloaded")
	return nil
}
