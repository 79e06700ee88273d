// Package model defines the core data structures used throughout
// the audiobook-downloader application.
//
// # Record
//
// Record represents one scraped audiobook entry with computed file paths:
//
//	rec := model.NewRecord("Title", "Author", "1234", coverURL, pathConfig)
//	fmt.Println(rec.AudioPath) // Where the MP3 will be saved
//	fmt.Println(rec.CoverPath) // Where the cover image will be saved
//
// # Status
//
// Each record moves through a forward-only state machine:
//
//	Discovered → Downloaded → Tagged
//
// with Failed reachable from any non-terminal state:
//
//	if err := rec.Advance(model.StatusDownloaded); err != nil { ... }
//
// # Path Configuration
//
// PathConfig controls how record paths are computed using placeholders:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:       "/audiobooks/{title}",
//	    AudioFileNameFormat: "{author} - {title}.mp3",
//	    CoverFileNameFormat: "cover",
//	}
//
// Available placeholders: {author}, {title}
package model
