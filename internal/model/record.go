package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Record represents one audiobook entry scraped from the listing page.
//
// A Record is created by the listing parser with its identity fields
// (Title, Author, PageID, CoverURL) and has its AudioURL resolved later
// from the item's detail page. Local paths are computed once via
// NewRecord from a PathConfig.
//
// Example:
//
//	cfg := &PathConfig{
//	    DownloadsPath:       "/audiobooks/{title}",
//	    AudioFileNameFormat: "{author} - {title}.mp3",
//	    CoverFileNameFormat: "cover",
//	}
//	rec := NewRecord("Winnie the Pooh", "A. A. Milne", "1234", coverURL, cfg)
//	// rec.Dir       = "/audiobooks/Winnie the Pooh"
//	// rec.AudioPath = "/audiobooks/Winnie the Pooh/A. A. Milne - Winnie the Pooh.mp3"
//	// rec.CoverPath = "/audiobooks/Winnie the Pooh/cover.jpg"
type Record struct {
	// Title is the audiobook title. Always set; records without a
	// title are skipped during parsing.
	Title string

	// Author is the audiobook author. May be empty; the listing page
	// does not always carry one.
	Author string

	// PageID is the site's item id (the data-id attribute). It is used
	// to build the detail page URL that carries the audio source.
	PageID string

	// CoverURL is the cover image URL. Empty means no cover art.
	CoverURL string

	// AudioURL is the MP3 download URL resolved from the detail page.
	// Empty until resolution; a record whose audio URL cannot be
	// resolved is failed, not downloaded.
	AudioURL string

	// Dir is the computed local directory for this record's files.
	Dir string

	// AudioPath is the computed local path of the MP3 file.
	AudioPath string

	// CoverPath is the computed local path of the cover image.
	// Empty when the record has no cover.
	CoverPath string

	// Status tracks the record through the pipeline.
	Status Status
}

// PathConfig holds path formatting settings for records.
//
// Templates support {author} and {title} placeholders. Placeholder
// values are sanitized for cross-platform filenames before
// substitution. When a record has no author, "{author} - " and
// "{author}" degrade gracefully instead of leaving a dangling
// separator.
type PathConfig struct {
	// DownloadsPath is the directory template for one record.
	// Example: "/audiobooks/{title}"
	DownloadsPath string

	// AudioFileNameFormat is the MP3 filename template, extension
	// included. Example: "{author} - {title}.mp3"
	AudioFileNameFormat string

	// CoverFileNameFormat is the cover filename template without
	// extension (the extension follows the source URL, default .jpg).
	CoverFileNameFormat string
}

// NewRecord creates a Record with computed local paths.
//
// The record starts in StatusDiscovered. CoverPath stays empty when
// coverURL is empty, so that a missing cover never blocks tagging.
func NewRecord(title, author, pageID, coverURL string, cfg *PathConfig) *Record {
	r := &Record{
		Title:    title,
		Author:   author,
		PageID:   pageID,
		CoverURL: coverURL,
		Status:   StatusDiscovered,
	}

	r.Dir = r.expand(cfg.DownloadsPath)
	r.AudioPath = filepath.Join(r.Dir, r.expand(cfg.AudioFileNameFormat))
	if coverURL != "" {
		ext := filepath.Ext(stripQuery(coverURL))
		if ext == "" {
			ext = ".jpg"
		}
		r.CoverPath = filepath.Join(r.Dir, r.expand(cfg.CoverFileNameFormat)+ext)
	}

	return r
}

// HasCover returns true if the record has cover art to download.
func (r *Record) HasCover() bool {
	return r.CoverURL != ""
}

// DisplayName returns a human-readable identifier for progress output.
func (r *Record) DisplayName() string {
	if r.Author != "" {
		return r.Author + " - " + r.Title
	}
	return r.Title
}

// expand substitutes template placeholders with sanitized values.
func (r *Record) expand(template string) string {
	s := template
	if r.Author == "" {
		// Drop the dangling separator an empty author would leave.
		s = strings.ReplaceAll(s, "{author} - ", "")
		s = strings.ReplaceAll(s, "{author}", "")
	} else {
		s = strings.ReplaceAll(s, "{author}", SanitizeFileName(r.Author))
	}
	s = strings.ReplaceAll(s, "{title}", SanitizeFileName(r.Title))
	return s
}

// stripQuery drops a URL query string so filepath.Ext sees the real
// extension of URLs like ".../cover.jpg?w=400".
func stripQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func SanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimRight(name, " ")
}
