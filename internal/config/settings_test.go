package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load should not fail on missing file: %v", err)
	}
	if settings.ListingURL == "" {
		t.Error("defaults should carry a listing URL")
	}
	if !settings.SkipExisting {
		t.Error("SkipExisting should default to true")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	settings := DefaultSettings()
	settings.DownloadsPath = "/library/{title}"
	settings.MaxConcurrentDownloads = 2
	settings.CreatePlaylist = true

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DownloadsPath != "/library/{title}" {
		t.Errorf("DownloadsPath = %q", loaded.DownloadsPath)
	}
	if loaded.MaxConcurrentDownloads != 2 {
		t.Errorf("MaxConcurrentDownloads = %d", loaded.MaxConcurrentDownloads)
	}
	if !loaded.CreatePlaylist {
		t.Error("CreatePlaylist not persisted")
	}
}

func TestToPathConfig(t *testing.T) {
	settings := DefaultSettings()
	cfg := settings.ToPathConfig()
	if cfg.DownloadsPath != settings.DownloadsPath {
		t.Errorf("DownloadsPath mismatch: %q vs %q", cfg.DownloadsPath, settings.DownloadsPath)
	}
	if cfg.AudioFileNameFormat != settings.AudioFileNameFormat {
		t.Errorf("AudioFileNameFormat mismatch")
	}
}
