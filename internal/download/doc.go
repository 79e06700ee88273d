// Package download provides the orchestration logic for the
// scrape → download → tag pipeline.
//
// # Manager
//
// The Manager coordinates the entire run:
//
//  1. Fetch and parse the listing page into records
//  2. Resolve each record's MP3 URL from its detail page
//  3. Download cover art
//  4. Download audio files concurrently (skip-if-exists)
//  5. Tag MP3 files with ID3 metadata and embedded cover
//  6. Generate a library playlist (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, ""); err != nil {
//	    log.Fatal(err) // systemic failure: listing unreachable/unparseable
//	}
//
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%+v\n", manager.Summary())
//
// # Failure Isolation
//
// Per-record errors (missing audio source, failed download, tag write
// error) fail that record and are reported via progress events; the
// rest of the batch continues. Only a listing-level failure aborts the
// run.
//
// # Concurrency
//
// Records are processed on an errgroup pool bounded by
// settings.MaxConcurrentDownloads. Within one record the order is
// fixed (download, then tag); across records no order is guaranteed.
//
// # Retry Logic
//
// Failed asset downloads are retried with exponential cooldown,
// configurable via settings.DownloadMaxRetries and
// settings.DownloadRetryCooldown.
package download
