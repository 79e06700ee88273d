package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"audiobook-downloader/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible). Can be extended
	// with EXTINF lines carrying display names.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// Extension returns the file extension for the playlist format,
// including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case FormatPLS:
		return ".pls"
	default:
		return ".m3u"
	}
}

// PlaylistCreator generates a playlist of the downloaded audiobook
// library. Entries are paths relative to the playlist's directory
// (the destination root), one per successfully tagged record.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(records, destRoot)
//	os.WriteFile(filepath.Join(destRoot, "audiobooks.m3u"), []byte(content), 0644)
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with display names
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended controls #EXTINF lines for the M3U format and is ignored
// for PLS.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for the given records,
// assuming the playlist file lives in destRoot. Records whose audio
// path cannot be made relative to destRoot are listed with their
// absolute path.
func (p *PlaylistCreator) CreatePlaylist(records []*model.Record, destRoot string) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(records, destRoot)
	default:
		return p.createM3U(records, destRoot)
	}
}

// createM3U generates an M3U playlist. Audiobook durations are not
// known at playlist time, so extended entries use -1 per the EXTINF
// convention for unknown length.
func (p *PlaylistCreator) createM3U(records []*model.Record, destRoot string) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, rec := range records {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", rec.DisplayName()))
		}
		sb.WriteString(relPath(destRoot, rec.AudioPath) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
func (p *PlaylistCreator) createPLS(records []*model.Record, destRoot string) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, rec := range records {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, relPath(destRoot, rec.AudioPath)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, rec.DisplayName()))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(records)))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
