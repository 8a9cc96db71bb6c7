// Package transfer implements the resumable download: filename
// resolution, resume-offset detection, ranged requests, streaming
// writes to a temp file and atomic promotion to the final path.
package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/armory-tools/amr/internal/domain"
	"github.com/armory-tools/amr/internal/port"
)

const tokenCookie = "USER_TOKEN"

// Config contains downloader settings
type Config struct {
	// BufferSize is the copy buffer size in bytes.
	BufferSize int
	// PartSuffix is appended to the final filename to stage the
	// in-progress transfer. Re-running against the same target
	// rediscovers the partial file through this suffix.
	PartSuffix string
	// HistoryInterval throttles transfer-log progress updates.
	HistoryInterval time.Duration
}

// Downloader performs a single resumable transfer per call.
// Concurrent invocations against the same destination file are not
// safe; there is no file locking.
type Downloader struct {
	cfg      Config
	client   *http.Client
	fs       afero.Fs
	progress port.ProgressReporter
	history  port.TransferLog
	logger   *zap.Logger
}

// New creates a Downloader.
func New(cfg Config, client *http.Client, fs afero.Fs, progress port.ProgressReporter, history port.TransferLog, logger *zap.Logger) *Downloader {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64 * 1024
	}
	if cfg.PartSuffix == "" {
		cfg.PartSuffix = ".part"
	}
	if cfg.HistoryInterval == 0 {
		cfg.HistoryInterval = time.Second
	}
	if progress == nil {
		progress = port.NopProgress{}
	}
	if history == nil {
		history = port.NopTransferLog{}
	}
	return &Downloader{
		cfg:      cfg,
		client:   client,
		fs:       fs,
		progress: progress,
		history:  history,
		logger:   logger,
	}
}

// Download fetches srcURL into destDir and returns the resolved
// filename. The token, when non-empty, is carried as a session cookie.
// explicitName overrides filename resolution. An interrupted transfer
// leaves its partial file behind; the next call resumes from it.
func (d *Downloader) Download(ctx context.Context, token, srcURL, destDir, explicitName string) (string, error) {
	if err := d.fs.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination dir %s: %w", destDir, err)
	}

	filename := explicitName
	if filename == "" {
		var err error
		filename, err = d.resolveFilename(ctx, token, srcURL)
		if err != nil {
			return "", err
		}
	}
	d.logger.Debug("resolved filename", zap.String("filename", filename))

	finalPath := filepath.Join(destDir, filename)
	tempPath := finalPath + d.cfg.PartSuffix

	// Resume offset is whatever the partial file already holds.
	var offset int64
	if info, err := d.fs.Stat(tempPath); err == nil {
		offset = info.Size()
		d.logger.Info("resuming download",
			zap.String("filename", filename),
			zap.Int64("from_byte", offset))
	}

	req, err := d.newRequest(ctx, token, srcURL)
	if err != nil {
		return "", err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &domain.DownloadError{Status: resp.StatusCode, Body: string(body)}
	}

	// A server that ignores Range answers 200 with the full body.
	// Appending that after the existing bytes would corrupt the file,
	// so the partial progress is discarded and the transfer restarts.
	truncate := false
	if offset > 0 && resp.StatusCode != http.StatusPartialContent {
		d.logger.Warn("server ignored range request, restarting from zero",
			zap.String("filename", filename),
			zap.Int("status", resp.StatusCode))
		offset = 0
		truncate = true
	}

	total := d.totalSize(resp, offset)

	record := &domain.Transfer{
		SourceURL:   srcURL,
		Filename:    filename,
		TempPath:    tempPath,
		ResumedFrom: offset,
		TotalSize:   total,
		Status:      domain.TransferStatusInProgress,
		StartedAt:   time.Now(),
	}
	historyID, err := d.history.Begin(record)
	if err != nil {
		d.logger.Warn("failed to record transfer start", zap.Error(err))
	}

	d.progress.Start(filename, total)
	if offset > 0 {
		d.progress.Advance(offset)
	}

	written, err := d.streamToTemp(resp.Body, tempPath, offset, truncate, historyID)
	if err != nil {
		d.failHistory(historyID, err)
		return "", err
	}

	if err := d.fs.Rename(tempPath, finalPath); err != nil {
		err = fmt.Errorf("failed to promote %s to %s: %w", tempPath, finalPath, err)
		d.failHistory(historyID, err)
		return "", err
	}

	if err := d.history.Complete(historyID, offset+written); err != nil {
		d.logger.Warn("failed to record transfer completion", zap.Error(err))
	}
	d.progress.Finish(filename)

	d.logger.Info("download complete",
		zap.String("filename", filename),
		zap.Int64("bytes", offset+written))
	return filename, nil
}

// resolveFilename issues an initial GET (the armory API does not
// support HEAD reliably) and derives the filename from the
// Content-Disposition header, falling back to the URL path.
func (d *Downloader) resolveFilename(ctx context.Context, token, srcURL string) (string, error) {
	req, err := d.newRequest(ctx, token, srcURL)
	if err != nil {
		return "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("filename probe failed: %w", err)
	}
	defer resp.Body.Close()

	if name, ok := FilenameFromContentDisposition(resp.Header.Get("Content-Disposition")); ok {
		return name, nil
	}

	name := FilenameFromURL(srcURL)
	d.logger.Debug("no content-disposition, using URL filename", zap.String("filename", name))
	return name, nil
}

// totalSize determines the definitive total byte count, or 0 when the
// server reports none.
func (d *Downloader) totalSize(resp *http.Response, offset int64) int64 {
	if resp.StatusCode == http.StatusPartialContent {
		if total, ok := TotalFromContentRange(resp.Header.Get("Content-Range")); ok {
			return total
		}
	}
	if resp.ContentLength < 0 {
		return 0
	}
	return offset + resp.ContentLength
}

// streamToTemp appends the response body to the temp file chunk by
// chunk, in arrival order, reporting each chunk to the progress
// reporter. On failure the partial file is left in place for resume.
func (d *Downloader) streamToTemp(body io.Reader, tempPath string, offset int64, truncate bool, historyID int64) (int64, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if truncate {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := d.fs.OpenFile(tempPath, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open temp file %s: %w", tempPath, err)
	}

	var written int64
	lastUpdate := time.Now()
	buf := make([]byte, d.cfg.BufferSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				f.Close()
				return written, fmt.Errorf("failed to write temp file %s: %w", tempPath, writeErr)
			}
			written += int64(n)
			d.progress.Advance(int64(n))

			if time.Since(lastUpdate) >= d.cfg.HistoryInterval {
				if err := d.history.Progress(historyID, offset+written); err != nil {
					d.logger.Warn("failed to record transfer progress", zap.Error(err))
				}
				lastUpdate = time.Now()
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			f.Close()
			return written, fmt.Errorf("transfer interrupted: %w", readErr)
		}
	}

	if err := f.Close(); err != nil {
		return written, fmt.Errorf("failed to close temp file %s: %w", tempPath, err)
	}
	return written, nil
}

func (d *Downloader) newRequest(ctx context.Context, token, srcURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", srcURL, err)
	}
	if token != "" {
		req.Header.Set("Cookie", fmt.Sprintf("%s=%s", tokenCookie, token))
	}
	return req, nil
}

func (d *Downloader) failHistory(id int64, cause error) {
	if err := d.history.Fail(id, cause.Error()); err != nil {
		d.logger.Warn("failed to record transfer failure", zap.Error(err))
	}
}
