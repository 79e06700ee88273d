package download

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bogem/id3v2"

	"audiobook-downloader/internal/config"
)

// fakeSite serves a listing page, per-item detail pages and assets the
// way the real site does, counting audio GETs so skip-if-exists can be
// asserted.
type fakeSite struct {
	srv        *httptest.Server
	audioData  []byte
	coverData  []byte
	audioGets  map[string]*int32
	brokenMP3s map[string]bool // ids whose audio endpoint returns 500
}

func newFakeSite(t *testing.T, entries string) *fakeSite {
	t.Helper()
	fs := &fakeSite{
		audioData:  bytes.Repeat([]byte("\xff\xfbAUDIO"), 10000),
		coverData:  []byte("png-cover-bytes"),
		audioGets:  map[string]*int32{"1": new(int32), "2": new(int32), "5": new(int32)},
		brokenMP3s: map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/audiobooki/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, strings.ReplaceAll(entries, "{base}", fs.srv.URL))
	})
	mux.HandleFunc("/detail", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("p")
		if id == "4" {
			// Detail page without an MP3 source element.
			fmt.Fprint(w, `<html><body><p>Coming soon</p></body></html>`)
			return
		}
		fmt.Fprintf(w, `<html><body><audio><source type="audio/mpeg" src="%s/audio/%s.mp3"></audio></body></html>`, fs.srv.URL, id)
	})
	mux.HandleFunc("/audio/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/audio/"), ".mp3")
		if fs.brokenMP3s[id] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if counter, ok := fs.audioGets[id]; ok && r.Method == http.MethodGet {
			atomic.AddInt32(counter, 1)
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(fs.audioData)))
		if r.Method == http.MethodGet {
			w.Write(fs.audioData)
		}
	})
	mux.HandleFunc("/covers/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprint(len(fs.coverData)))
		if r.Method == http.MethodGet {
			w.Write(fs.coverData)
		}
	})

	fs.srv = httptest.NewServer(mux)
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeSite) settings(destRoot string) *config.Settings {
	s := config.DefaultSettings()
	s.ListingURL = fs.srv.URL + "/audiobooki/"
	s.DetailURLTemplate = fs.srv.URL + "/detail?p={id}"
	s.CollectionName = "Test Shelf"
	s.DownloadsPath = filepath.Join(destRoot, "{title}")
	s.AudioFileNameFormat = "{author} - {title}.mp3"
	s.MaxConcurrentDownloads = 2
	s.DownloadMaxRetries = 1
	s.DownloadRetryCooldown = 0
	s.SkipExisting = true
	s.SaveCoverInTags = true
	s.SaveCoverInFolder = true
	s.CoverResize = false
	s.ConvertCoverToJPG = false
	s.CreatePlaylist = true
	s.PlaylistFormat = "m3u"
	s.M3UExtended = true
	s.PlaylistFileName = "audiobooks"
	s.ModifyTags = true
	return s
}

// The listing used by the main pipeline test: Book A (author, no
// cover), Book B (cover, no author), one entry without a data-id and
// Book D whose detail page carries no audio source.
const listingHTML = `<html><body>
	<div class="audiobook" data-id="1">
		<div class="title">Book A</div>
		<div class="author">Author X</div>
	</div>
	<div class="audiobook" data-id="2">
		<div class="title">Book B</div>
		<div class="cover lazyBackgroundNone" style="background-image: url({base}/covers/b.png)"></div>
	</div>
	<div class="audiobook">
		<div class="title">No ID</div>
	</div>
	<div class="audiobook" data-id="4">
		<div class="title">Book D</div>
	</div>
</body></html>`

func readTags(t *testing.T, path string) *id3v2.Tag {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	return tag
}

func runPipeline(t *testing.T, settings *config.Settings) *Manager {
	t.Helper()
	m := NewManager(settings, nil)
	if err := m.Initialize(context.Background(), ""); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := m.StartDownloads(context.Background()); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}
	return m
}

func TestPipeline_EndToEnd(t *testing.T) {
	site := newFakeSite(t, listingHTML)
	dest := t.TempDir()

	m := runPipeline(t, site.settings(dest))

	summary := m.Summary()
	if summary.Tagged != 2 {
		t.Errorf("Tagged = %d, want 2", summary.Tagged)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1 (Book D has no audio source)", summary.Failed)
	}
	if summary.ParseSkipped != 1 {
		t.Errorf("ParseSkipped = %d, want 1", summary.ParseSkipped)
	}

	// Book A: title + author tagged, no embedded cover.
	pathA := filepath.Join(dest, "Book A", "Author X - Book A.mp3")
	tagA := readTags(t, pathA)
	if tagA.Title() != "Book A" || tagA.Artist() != "Author X" || tagA.Album() != "Test Shelf" {
		t.Errorf("Book A tags = %q/%q/%q", tagA.Title(), tagA.Artist(), tagA.Album())
	}
	if n := len(tagA.GetFrames(tagA.CommonID("Attached picture"))); n != 0 {
		t.Errorf("Book A should have no cover frame, got %d", n)
	}
	tagA.Close()

	// Book B: no author frame, cover embedded and saved in folder.
	pathB := filepath.Join(dest, "Book B", "Book B.mp3")
	tagB := readTags(t, pathB)
	if tagB.Title() != "Book B" {
		t.Errorf("Book B title = %q", tagB.Title())
	}
	if tagB.Artist() != "" {
		t.Errorf("Book B should have no author frame, got %q", tagB.Artist())
	}
	pics := tagB.GetFrames(tagB.CommonID("Attached picture"))
	if len(pics) != 1 {
		t.Fatalf("Book B cover frames = %d, want 1", len(pics))
	}
	if pic := pics[0].(id3v2.PictureFrame); !bytes.Equal(pic.Picture, site.coverData) {
		t.Error("embedded cover differs from served bytes")
	}
	tagB.Close()

	coverPath := filepath.Join(dest, "Book B", "cover.png")
	if _, err := os.Stat(coverPath); err != nil {
		t.Errorf("cover not saved in folder: %v", err)
	}

	// Playlist lists both tagged books relative to the destination root.
	playlist, err := os.ReadFile(filepath.Join(dest, "audiobooks.m3u"))
	if err != nil {
		t.Fatalf("playlist missing: %v", err)
	}
	for _, want := range []string{"Book A/Author X - Book A.mp3", "Book B/Book B.mp3"} {
		if !strings.Contains(string(playlist), want) {
			t.Errorf("playlist missing %q:\n%s", want, playlist)
		}
	}

	// No stray partial files anywhere.
	filepath.WalkDir(dest, func(path string, d os.DirEntry, err error) error {
		if err == nil && strings.HasSuffix(path, ".part") {
			t.Errorf("leftover partial file: %s", path)
		}
		return nil
	})
}

func TestPipeline_RerunSkipsExisting(t *testing.T) {
	site := newFakeSite(t, listingHTML)
	dest := t.TempDir()
	settings := site.settings(dest)

	runPipeline(t, settings)
	m2 := runPipeline(t, settings)

	if got := atomic.LoadInt32(site.audioGets["1"]); got != 1 {
		t.Errorf("Book A audio fetched %d times, want 1 (skip-if-exists)", got)
	}
	if got := atomic.LoadInt32(site.audioGets["2"]); got != 1 {
		t.Errorf("Book B audio fetched %d times, want 1 (skip-if-exists)", got)
	}

	summary := m2.Summary()
	if summary.ReusedExisting != 2 {
		t.Errorf("ReusedExisting = %d, want 2", summary.ReusedExisting)
	}
	// Tags refreshed on skipped files, so re-runs still converge.
	if summary.Tagged != 2 {
		t.Errorf("Tagged = %d, want 2", summary.Tagged)
	}
}

func TestPipeline_DownloadFailureIsolated(t *testing.T) {
	const twoEntries = `<html><body>
		<div class="audiobook" data-id="1"><div class="title">Good Book</div></div>
		<div class="audiobook" data-id="5"><div class="title">Bad Book</div></div>
	</body></html>`

	site := newFakeSite(t, twoEntries)
	site.brokenMP3s["5"] = true
	dest := t.TempDir()

	m := runPipeline(t, site.settings(dest))

	summary := m.Summary()
	if summary.Tagged != 1 {
		t.Errorf("Tagged = %d, want 1 (good record must survive)", summary.Tagged)
	}
	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}

	if _, err := os.Stat(filepath.Join(dest, "Good Book", "Good Book.mp3")); err != nil {
		t.Errorf("good record not downloaded: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "Bad Book", "Bad Book.mp3")); !os.IsNotExist(err) {
		t.Error("failed record must not leave an audio file behind")
	}
}

func TestInitialize_ListingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	settings := config.DefaultSettings()
	settings.ListingURL = srv.URL

	m := NewManager(settings, nil)
	if err := m.Initialize(context.Background(), ""); err == nil {
		t.Fatal("systemic listing failure must surface from Initialize")
	}
}
