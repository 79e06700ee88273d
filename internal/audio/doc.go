// Package audio provides audio file manipulation services including
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to downloaded MP3 files:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(rec, collectionName, artworkBytes)
//
// The tagger writes:
//   - Title (TIT2)
//   - Author (TPE1, omitted when the record has none)
//   - Collection name (TALB)
//   - Cover Art (APIC, embedded in the MP3)
//
// Tagging is idempotent; re-runs overwrite the frames with identical
// values without touching audio data.
//
// # Playlist Generation
//
// Generate a playlist of the downloaded library:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(records, destRoot)
//	os.WriteFile(playlistPath, []byte(content), 0644)
//
// Supported formats: M3U (with optional extended info) and PLS.
package audio
