package scrape

import (
	"errors"
	"testing"

	"audiobook-downloader/internal/model"
)

func testPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:       "/audiobooks/{title}",
		AudioFileNameFormat: "{author} - {title}.mp3",
		CoverFileNameFormat: "cover",
	}
}

func TestParseListing(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		wantRecords int
		wantSkipped int
		wantErr     error
	}{
		{
			name: "complete entry",
			html: `<html><body>
				<div class="audiobook" data-id="101">
					<div class="title">Book A</div>
					<div class="author">Author X</div>
					<div class="cover lazyBackgroundNone" style="background-image: url(https://cdn.example.com/a.jpg)"></div>
				</div>
			</body></html>`,
			wantRecords: 1,
		},
		{
			name: "missing optional fields tolerated",
			html: `<html><body>
				<div class="audiobook" data-id="102">
					<div class="title">Book B</div>
				</div>
			</body></html>`,
			wantRecords: 1,
		},
		{
			name: "entry without data-id skipped, rest survive",
			html: `<html><body>
				<div class="audiobook">
					<div class="title">Orphan</div>
				</div>
				<div class="audiobook" data-id="103">
					<div class="title">Book C</div>
				</div>
			</body></html>`,
			wantRecords: 1,
			wantSkipped: 1,
		},
		{
			name: "entry without title skipped",
			html: `<html><body>
				<div class="audiobook" data-id="104"></div>
			</body></html>`,
			wantRecords: 0,
			wantSkipped: 1,
		},
		{
			name:    "no entries at all",
			html:    `<html><body><p>Nothing here</p></body></html>`,
			wantErr: ErrNoAudiobooks,
		},
	}

	p := NewParser(testPathConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseListing(tt.html)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Records) != tt.wantRecords {
				t.Errorf("got %d records, want %d", len(result.Records), tt.wantRecords)
			}
			if len(result.Skipped) != tt.wantSkipped {
				t.Errorf("got %d skipped, want %d", len(result.Skipped), tt.wantSkipped)
			}
		})
	}
}

func TestParseListing_FieldExtraction(t *testing.T) {
	html := `<html><body>
		<div class="audiobook" data-id="42">
			<div class="title">  Winnie the Pooh  </div>
			<div class="author">A. A. Milne</div>
			<div class="cover lazyBackgroundNone" style="color: red; background-image: url('https://cdn.example.com/pooh.png?w=400')"></div>
		</div>
	</body></html>`

	result, err := NewParser(testPathConfig()).ParseListing(html)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records", len(result.Records))
	}

	rec := result.Records[0]
	if rec.Title != "Winnie the Pooh" {
		t.Errorf("Title = %q (whitespace not trimmed?)", rec.Title)
	}
	if rec.Author != "A. A. Milne" {
		t.Errorf("Author = %q", rec.Author)
	}
	if rec.PageID != "42" {
		t.Errorf("PageID = %q", rec.PageID)
	}
	if rec.CoverURL != "https://cdn.example.com/pooh.png?w=400" {
		t.Errorf("CoverURL = %q", rec.CoverURL)
	}
}

func TestParseListing_DocumentOrder(t *testing.T) {
	html := `<html><body>
		<div class="audiobook" data-id="1"><div class="title">First</div></div>
		<div class="audiobook" data-id="2"><div class="title">Second</div></div>
		<div class="audiobook" data-id="3"><div class="title">Third</div></div>
	</body></html>`

	result, err := NewParser(testPathConfig()).ParseListing(html)
	if err != nil {
		t.Fatalf("ParseListing failed: %v", err)
	}

	want := []string{"First", "Second", "Third"}
	for i, title := range want {
		if result.Records[i].Title != title {
			t.Errorf("Records[%d].Title = %q, want %q", i, result.Records[i].Title, title)
		}
	}
}

func TestParseAudioSource(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    string
		wantErr error
	}{
		{
			name: "audio source present",
			html: `<html><body><audio controls>
				<source type="audio/mpeg" src="https://cdn.example.com/book.mp3">
			</audio></body></html>`,
			want: "https://cdn.example.com/book.mp3",
		},
		{
			name:    "no source element",
			html:    `<html><body><p>No player here</p></body></html>`,
			wantErr: ErrNoAudioSource,
		},
		{
			name:    "source without src",
			html:    `<html><body><source type="audio/mpeg"></body></html>`,
			wantErr: ErrNoAudioSource,
		},
		{
			name: "other source types ignored",
			html: `<html><body>
				<source type="video/mp4" src="https://cdn.example.com/clip.mp4">
				<source type="audio/mpeg" src="https://cdn.example.com/book.mp3">
			</body></html>`,
			want: "https://cdn.example.com/book.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAudioSource(tt.html)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetailURL(t *testing.T) {
	got := DetailURL("https://kubus.pl/?p={id}", "1234")
	if got != "https://kubus.pl/?p=1234" {
		t.Errorf("DetailURL = %q", got)
	}
}
