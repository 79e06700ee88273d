package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client wraps HTTP operations with site-specific configuration.
//
// Client provides:
//   - Browser-like request headers (the site serves different markup,
//     or nothing at all, to default library user agents)
//   - Timeout handling
//   - Streaming file downloads with a temp-then-rename discipline
//   - File size retrieval via HEAD requests
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch listing markup
//	html, err := client.GetString(ctx, "https://kubus.pl/audiobooki/")
//
//	// Download file with progress
//	err = client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    percent := float64(written) / float64(total) * 100
//	    fmt.Printf("%.1f%%\n", percent)
//	})
type Client struct {
	httpClient *http.Client
	headers    map[string]string
}

// NewClient creates a new HTTP client configured for the audiobook site.
//
// The client is configured with a 60 second timeout and a Chrome-like
// header set on every request.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language": "pl-PL,pl;q=0.8",
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36",
		},
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if the request fails, the response status is not
// 200 OK, or reading the body fails.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content like HTML.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// Used to pre-calculate total download size and to check whether an
// existing local file matches the expected size.
//
// Returns an error if the request fails or the server doesn't return
// a Content-Length header.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// DownloadFile downloads a file to the specified path with optional
// progress callback.
//
// The content is streamed to a ".part" temp file next to destPath and
// renamed into place only after the full body was written, so a failed
// or cancelled download never leaves a half-written file under the
// final name.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	tmpPath := destPath + ".part"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	written, err := io.Copy(writer, resp.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil && written == 0 {
		err = fmt.Errorf("empty response body from %s", url)
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, destPath)
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images. For large files like
// MP3s, use DownloadFile to stream directly to disk.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
