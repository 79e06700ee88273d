package download

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"audiobook-downloader/internal/audio"
	"audiobook-downloader/internal/config"
	"audiobook-downloader/internal/http"
	ioutils "audiobook-downloader/internal/io"
	"audiobook-downloader/internal/model"
	"audiobook-downloader/internal/scrape"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a pipeline progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Summary reports the outcome of a pipeline run.
type Summary struct {
	// Tagged is the number of records that reached the terminal
	// Tagged state.
	Tagged int

	// Failed is the number of records that entered the pipeline and
	// failed at any stage, including audio URL resolution.
	Failed int

	// ParseSkipped is the number of listing entries dropped before a
	// record was created (missing title or item id).
	ParseSkipped int

	// ReusedExisting is the number of audio files found on disk and
	// not re-downloaded.
	ReusedExisting int
}

// Manager coordinates the scrape → download → tag pipeline.
//
// Usage is two-phase: Initialize fetches and parses the listing and
// resolves each record's audio URL from its detail page; StartDownloads
// then processes records on a bounded worker pool. One record's failure
// never aborts the others.
type Manager struct {
	settings       *config.Settings
	httpClient     *http.Client
	parser         *scrape.Parser
	tagger         *audio.Tagger
	playlist       *audio.PlaylistCreator
	playlistFormat audio.PlaylistFormat
	imageService   *ioutils.ImageService

	records      []*model.Record
	parseSkipped int

	totalBytes      int64
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32
	taggedCount     int32
	failedCount     int32
	reusedExisting  int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new pipeline Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	var playlistFormat audio.PlaylistFormat
	switch settings.PlaylistFormat {
	case "pls":
		playlistFormat = audio.FormatPLS
	default:
		playlistFormat = audio.FormatM3U
	}

	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags

	return &Manager{
		settings:       settings,
		httpClient:     http.NewClient(),
		parser:         scrape.NewParser(settings.ToPathConfig()),
		tagger:         audio.NewTagger(tagCfg),
		playlist:       audio.NewPlaylistCreator(playlistFormat, settings.M3UExtended),
		playlistFormat: playlistFormat,
		imageService:   ioutils.NewImageService(),
		onProgress:     onProgress,
	}
}

// Initialize fetches the listing page, parses it into records and
// resolves each record's audio URL from its detail page.
//
// A listing that cannot be fetched or parsed is a systemic failure and
// returns an error. A single record whose detail page yields no audio
// source is failed and reported, not fatal.
func (m *Manager) Initialize(ctx context.Context, listingURL string) error {
	if listingURL == "" {
		listingURL = m.settings.ListingURL
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching listing: %s", listingURL), Level: LevelVerbose})

	html, err := m.httpClient.GetString(ctx, listingURL)
	if err != nil {
		return fmt.Errorf("fetch listing %s: %w", listingURL, err)
	}

	result, err := m.parser.ParseListing(html)
	if err != nil {
		return fmt.Errorf("parse listing %s: %w", listingURL, err)
	}

	m.parseSkipped = len(result.Skipped)
	for _, skipped := range result.Skipped {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping listing entry %d: %s", skipped.Position, skipped.Reason), Level: LevelWarning})
	}

	m.records = result.Records
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d audiobook(s)", len(m.records)), Level: LevelInfo})

	// Resolve audio URLs from detail pages. A record that cannot be
	// resolved is failed here so the download phase only sees
	// ready-to-fetch records.
	for _, rec := range m.records {
		if err := m.resolveAudioURL(ctx, rec); err != nil {
			m.failRecord(rec, fmt.Errorf("resolve audio source: %w", err))
		}
	}

	m.calculateTotals(ctx)

	return nil
}

// StartDownloads processes all initialized records on a bounded worker
// pool. Per-record ordering (download before tag) is preserved; no
// ordering is guaranteed across records.
func (m *Manager) StartDownloads(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	for _, rec := range m.records {
		if rec.Status != model.StatusDiscovered {
			continue
		}
		rec := rec
		g.Go(func() error {
			if err := m.processRecord(ctx, rec); err != nil {
				m.failRecord(rec, err)
				return nil // Continue with other records
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if m.settings.CreatePlaylist {
		m.writePlaylist()
	}

	summary := m.Summary()
	if summary.Failed == 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Completed: %d audiobook(s) tagged", summary.Tagged), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Finished: %d tagged, %d failed", summary.Tagged, summary.Failed), Level: LevelWarning})
	}

	return ctx.Err()
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received, total int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), m.totalBytes,
		atomic.LoadInt32(&m.downloadedFiles), m.totalFiles
}

// GetRecordNames returns display names of all initialized records.
func (m *Manager) GetRecordNames() []string {
	names := make([]string, len(m.records))
	for i, rec := range m.records {
		names[i] = rec.DisplayName()
	}
	return names
}

// Records returns the initialized records.
func (m *Manager) Records() []*model.Record {
	return m.records
}

// Summary returns the run outcome counters.
func (m *Manager) Summary() Summary {
	return Summary{
		Tagged:         int(atomic.LoadInt32(&m.taggedCount)),
		Failed:         int(atomic.LoadInt32(&m.failedCount)),
		ParseSkipped:   m.parseSkipped,
		ReusedExisting: int(atomic.LoadInt32(&m.reusedExisting)),
	}
}

func (m *Manager) resolveAudioURL(ctx context.Context, rec *model.Record) error {
	detailURL := scrape.DetailURL(m.settings.DetailURLTemplate, rec.PageID)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolving audio source: %s", rec.DisplayName()), Level: LevelVerbose})

	html, err := m.httpClient.GetString(ctx, detailURL)
	if err != nil {
		return err
	}

	audioURL, err := scrape.ParseAudioSource(html)
	if err != nil {
		return err
	}

	rec.AudioURL = audioURL
	return nil
}

// calculateTotals pre-computes the byte/file totals via HEAD requests.
// Sizes the server won't reveal are simply left out of the total.
func (m *Manager) calculateTotals(ctx context.Context) {
	for _, rec := range m.records {
		if rec.Status != model.StatusDiscovered {
			continue
		}
		m.totalFiles++
		if size, err := m.httpClient.GetFileSize(ctx, rec.AudioURL); err == nil {
			m.totalBytes += size
		}
		if rec.HasCover() {
			m.totalFiles++
			if size, err := m.httpClient.GetFileSize(ctx, rec.CoverURL); err == nil {
				m.totalBytes += size
			}
		}
	}
}

func (m *Manager) processRecord(ctx context.Context, rec *model.Record) error {
	if err := ioutils.EnsureDir(rec.Dir); err != nil {
		return fmt.Errorf("create directory %s: %w", rec.Dir, err)
	}

	// Cover art is optional: a failed cover download degrades to an
	// untagged cover, never to a failed record.
	var artwork []byte
	if rec.HasCover() && (m.settings.SaveCoverInTags || m.settings.SaveCoverInFolder) {
		var err error
		artwork, err = m.downloadCover(ctx, rec)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cover download failed for %s: %v", rec.DisplayName(), err), Level: LevelWarning})
			artwork = nil
		}
	}

	if err := m.downloadAudio(ctx, rec); err != nil {
		return fmt.Errorf("download audio: %w", err)
	}

	if err := rec.Advance(model.StatusDownloaded); err != nil {
		return err
	}

	if !m.settings.SaveCoverInTags {
		artwork = nil
	}
	if m.settings.ModifyTags || artwork != nil {
		if err := m.tagger.SaveTags(rec, m.settings.CollectionName, artwork); err != nil {
			return fmt.Errorf("tag audio: %w", err)
		}
	}

	if err := rec.Advance(model.StatusTagged); err != nil {
		return err
	}
	atomic.AddInt32(&m.taggedCount, 1)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Done: %s", rec.DisplayName()), Level: LevelInfo})
	return nil
}

func (m *Manager) downloadCover(ctx context.Context, rec *model.Record) ([]byte, error) {
	var artwork []byte
	var err error

	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		artwork, err = m.httpClient.DownloadBytes(ctx, rec.CoverURL)
		if err == nil {
			break
		}
		m.waitForRetry(ctx, tries)
	}
	if err != nil {
		return nil, err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	atomic.AddInt64(&m.receivedBytes, int64(len(artwork)))

	if m.settings.CoverResize {
		if resized, rerr := m.imageService.ResizeImage(ctx, artwork, m.settings.CoverMaxSize, m.settings.CoverMaxSize); rerr == nil {
			artwork = resized
		}
	} else if m.settings.ConvertCoverToJPG {
		if converted, cerr := m.imageService.ConvertToJPEG(ctx, artwork); cerr == nil {
			artwork = converted
		}
	}

	if m.settings.SaveCoverInFolder {
		if werr := ioutils.WriteFileAtomic(rec.CoverPath, artwork); werr != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Saving cover failed: %v", werr), Level: LevelWarning})
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded cover for %s", rec.DisplayName()), Level: LevelVerbose})
	return artwork, nil
}

func (m *Manager) downloadAudio(ctx context.Context, rec *model.Record) error {
	// Skip-if-exists keeps re-runs cheap. When the server reveals the
	// expected size, a badly truncated file is re-fetched.
	if m.settings.SkipExisting {
		if info, err := os.Stat(rec.AudioPath); err == nil {
			expectedSize, _ := m.httpClient.GetFileSize(ctx, rec.AudioURL)
			if expectedSize <= 0 || m.sizeAcceptable(info.Size(), expectedSize) {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(rec.AudioPath)), Level: LevelVerbose})
				atomic.AddInt32(&m.reusedExisting, 1)
				atomic.AddInt32(&m.downloadedFiles, 1)
				return nil
			}
		}
	}

	var lastWritten int64
	onProgress := func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-lastWritten)
		lastWritten = written
	}

	var err error
	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		err = m.httpClient.DownloadFile(ctx, rec.AudioURL, rec.AudioPath, onProgress)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return err
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.DownloadMaxRetries, rec.DisplayName()), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}
	if err != nil {
		return err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(rec.AudioPath)), Level: LevelVerbose})
	return nil
}

func (m *Manager) sizeAcceptable(actual, expected int64) bool {
	diff := float64(actual-expected) / float64(expected)
	return math.Abs(diff) <= m.settings.AllowedFileSizeDifference
}

// writePlaylist writes a playlist of all tagged records into the
// destination root.
func (m *Manager) writePlaylist() {
	var tagged []*model.Record
	for _, rec := range m.records {
		if rec.Status == model.StatusTagged {
			tagged = append(tagged, rec)
		}
	}
	if len(tagged) == 0 {
		return
	}

	root := m.destRoot()
	content := m.playlist.CreatePlaylist(tagged, root)
	path := filepath.Join(root, model.SanitizeFileName(m.settings.PlaylistFileName)+m.playlistFormat.Extension())

	if err := ioutils.WriteFileAtomic(path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Writing playlist failed: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Wrote playlist: %s", path), Level: LevelSuccess})
}

// destRoot returns the static part of the downloads path template,
// i.e. the directory all record directories live under.
func (m *Manager) destRoot() string {
	p := m.settings.DownloadsPath
	if i := strings.Index(p, "{"); i >= 0 {
		p = p[:i]
	}
	return filepath.Clean(p)
}

func (m *Manager) failRecord(rec *model.Record, err error) {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", rec.DisplayName(), err), Level: LevelError})
	if aerr := rec.Advance(model.StatusFailed); aerr != nil {
		m.progress(ProgressEvent{Message: aerr.Error(), Level: LevelError})
		return
	}
	atomic.AddInt32(&m.failedCount, 1)
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
