package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"

	"audiobook-downloader/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the scraped record.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Title:      TagModify, // Update title from the listing
//	    Author:     TagModify, // Update author from the listing
//	    Album:      TagModify, // Update the collection name
//	    Comments:   TagEmpty,  // Clear any existing comments
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no string tags are modified.
	ModifyTags bool

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Author controls the TPE1 (Lead artist) frame.
	Author TagEditAction

	// Album controls the TALB (Album title) frame, carrying the
	// collection name.
	Album TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration: title,
// author and album updated from the record, comments cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Title:      TagModify,
		Author:     TagModify,
		Album:      TagModify,
		Comments:   TagEmpty,
	}
}

// Tagger writes ID3 tags to downloaded MP3 files.
//
// The written frames are:
//   - TIT2: the audiobook title
//   - TPE1: the author (frame removed when the record has none)
//   - TALB: the collection name
//   - APIC: front cover art (optional, JPEG bytes)
//
// Tagging is idempotent: re-running it on an already-tagged file
// overwrites the frames with the same values and leaves the audio
// data untouched.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	err := tagger.SaveTags(rec, "Kubus Storytel", artworkBytes)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the record's downloaded MP3 file.
//
// Parameters:
//   - rec: the record being tagged (provides title, author, file path)
//   - collection: the collection name written to TALB
//   - artwork: JPEG image bytes for cover art (nil to skip artwork;
//     a record without a cover must still tag cleanly)
//
// Returns an error when the file cannot be opened as a taggable audio
// container or the tag cannot be saved.
func (t *Tagger) SaveTags(rec *model.Record, collection string, artwork []byte) error {
	tag, err := id3v2.Open(rec.AudioPath, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("audio file missing: %w", err)
		}
		return fmt.Errorf("open audio container: %w", err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, rec, collection)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("write tags to %s: %w", rec.AudioPath, err)
	}
	return nil
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, rec *model.Record, collection string) {
	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(rec.Title)
	}

	// Author (TPE1). A record without an author gets no frame at all
	// rather than an empty one.
	switch t.config.Author {
	case TagEmpty:
		tag.DeleteFrames("TPE1")
	case TagModify:
		if rec.Author != "" {
			tag.SetArtist(rec.Author)
		} else {
			tag.DeleteFrames("TPE1")
		}
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(collection)
	}

	// Comments (COMM)
	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
