package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"audiobook-downloader/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Source site settings
	ListingURL        string `json:"listing_url"`
	DetailURLTemplate string `json:"detail_url_template"` // {id} placeholder
	CollectionName    string `json:"collection_name"`     // written to the TALB frame

	// Download settings
	DownloadsPath             string  `json:"downloads_path"`
	MaxConcurrentDownloads    int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries        int     `json:"download_max_retries"`
	DownloadRetryCooldown     float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `json:"download_retry_exponent"`
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference"`
	SkipExisting              bool    `json:"skip_existing"`

	// File naming
	AudioFileNameFormat string `json:"audio_file_name_format"`
	CoverFileNameFormat string `json:"cover_file_name_format"`

	// Cover art settings
	SaveCoverInTags   bool `json:"save_cover_in_tags"`
	SaveCoverInFolder bool `json:"save_cover_in_folder"`
	CoverResize       bool `json:"cover_resize"`
	CoverMaxSize      int  `json:"cover_max_size"`
	ConvertCoverToJPG bool `json:"convert_cover_to_jpg"`

	// Playlist settings
	CreatePlaylist   bool   `json:"create_playlist"`
	PlaylistFormat   string `json:"playlist_format"` // m3u, pls
	PlaylistFileName string `json:"playlist_file_name"`
	M3UExtended      bool   `json:"m3u_extended"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`
}

// DefaultSettings returns settings with default values.
//
// The listing URL and detail URL template point at the Kubus Storytel
// audiobook catalogue; the detail template's {id} placeholder is filled
// with each item's data-id.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		ListingURL:        "https://kubus.pl/audiobooki/",
		DetailURLTemplate: "https://kubus.pl/?p={id}",
		CollectionName:    "Kubus Storytel",

		DownloadsPath:             filepath.Join(homeDir, "Audiobooks", "{title}"),
		MaxConcurrentDownloads:    4,
		DownloadMaxRetries:        3,
		DownloadRetryCooldown:     0.2,
		DownloadRetryExponent:     4.0,
		AllowedFileSizeDifference: 0.05,
		SkipExisting:              true,

		AudioFileNameFormat: "{author} - {title}.mp3",
		CoverFileNameFormat: "cover",

		SaveCoverInTags:   true,
		SaveCoverInFolder: true,
		CoverResize:       true,
		CoverMaxSize:      1000,
		ConvertCoverToJPG: true,

		CreatePlaylist:   false,
		PlaylistFormat:   "m3u",
		PlaylistFileName: "audiobooks",
		M3UExtended:      true,

		ModifyTags: true,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned so first runs
// work without any setup.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:       s.DownloadsPath,
		AudioFileNameFormat: s.AudioFileNameFormat,
		CoverFileNameFormat: s.CoverFileNameFormat,
	}
}
