// Package http provides an HTTP client configured for the audiobook
// site's requests.
//
// The Client in this package handles:
//   - Browser-like request headers the site expects
//   - Streaming file downloads with temp-then-rename atomicity
//   - File size retrieval via HEAD requests
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch HTML page
//	html, err := client.GetString(ctx, listingURL)
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for
// progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
