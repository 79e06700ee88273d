// Package config provides configuration management for
// audiobook-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to model.PathConfig for path computation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Audiobooks/{title}
//	// Skip-if-exists enabled for safe re-runs
//	// ID3 tagging and cover embedding enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	// Missing file falls back to defaults
//
// # Saving Settings
//
//	settings.DownloadsPath = "/library/{title}"
//	err := settings.Save("/path/to/config.json")
package config
