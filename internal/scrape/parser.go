package scrape

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"audiobook-downloader/internal/model"
)

// ErrNoAudiobooks is returned when a listing page yields no entries.
//
// This typically occurs when:
//   - The URL is not the audiobook listing page
//   - The page structure has changed unexpectedly
//   - The site served an interstitial/error page instead of the listing
var ErrNoAudiobooks = errors.New("no audiobooks found on page")

// ErrNoAudioSource is returned when a detail page carries no MP3 source
// element. The pipeline fails the affected record and moves on.
var ErrNoAudioSource = errors.New("no audio source found on detail page")

var backgroundImageExpr = regexp.MustCompile(`background-image:\s*url\(['"]?([^'")]+)['"]?\)`)

// SkippedEntry reports one listing entry that was dropped because a
// mandatory field was missing. Position is the entry's document-order
// index; Reason names the missing field.
type SkippedEntry struct {
	Position int
	Reason   string
}

// ListingResult holds the outcome of parsing one listing page:
// the records in document order plus the entries that were skipped.
type ListingResult struct {
	Records []*model.Record
	Skipped []SkippedEntry
}

// Parser extracts audiobook records from the site's HTML pages.
//
// The listing page carries one div.audiobook element per entry with the
// item id in data-id, the title in div.title, and the cover image URL
// inside the inline background-image style of div.cover. The MP3 URL is
// not on the listing; it lives on a per-item detail page (see
// ParseAudioSource).
//
// Example usage:
//
//	parser := scrape.NewParser(pathConfig)
//	result, err := parser.ParseListing(html)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range result.Records {
//	    fmt.Println(rec.Title)
//	}
type Parser struct {
	pathConfig *model.PathConfig
}

// NewParser creates a new Parser.
//
// The pathConfig is used to compute local file paths for the parsed
// records, determining where downloads will be saved and how they will
// be named.
func NewParser(pathCfg *model.PathConfig) *Parser {
	return &Parser{pathConfig: pathCfg}
}

// ParseListing extracts audiobook records from the listing page HTML.
//
// Records are emitted in document order. Entries missing a mandatory
// field (title or data-id) are skipped and reported in the result,
// never failing the whole page. Optional fields (author, cover) may be
// absent without penalty.
//
// Returns ErrNoAudiobooks when the page contains no div.audiobook
// elements at all, and a parse error when the markup itself is
// unreadable.
func (p *Parser) ParseListing(htmlContent string) (*ListingResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse listing markup: %w", err)
	}

	items := doc.Find("div.audiobook")
	if items.Length() == 0 {
		return nil, ErrNoAudiobooks
	}

	result := &ListingResult{}
	items.Each(func(i int, item *goquery.Selection) {
		pageID, _ := item.Attr("data-id")
		title := strings.TrimSpace(item.Find("div.title").First().Text())

		if title == "" || pageID == "" {
			reason := "missing title"
			if pageID == "" {
				reason = "missing data-id"
			}
			result.Skipped = append(result.Skipped, SkippedEntry{Position: i, Reason: reason})
			return
		}

		author := strings.TrimSpace(item.Find("div.author").First().Text())
		coverURL := extractCoverURL(item.Find("div.cover").First())

		result.Records = append(result.Records, model.NewRecord(title, author, pageID, coverURL, p.pathConfig))
	})

	return result, nil
}

// ParseAudioSource extracts the MP3 URL from a detail page's
// source[type="audio/mpeg"] element.
//
// Returns ErrNoAudioSource when the element or its src attribute is
// missing.
func ParseAudioSource(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse detail markup: %w", err)
	}

	src, ok := doc.Find(`source[type="audio/mpeg"]`).First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", ErrNoAudioSource
	}

	return strings.TrimSpace(src), nil
}

// DetailURL builds a record's detail page URL from the configured
// template, substituting the {id} placeholder.
func DetailURL(template, pageID string) string {
	return strings.ReplaceAll(template, "{id}", pageID)
}

// extractCoverURL pulls the image URL out of the cover element's inline
// background-image style. An absent element or style yields "".
func extractCoverURL(cover *goquery.Selection) string {
	style, ok := cover.Attr("style")
	if !ok {
		return ""
	}
	m := backgroundImageExpr.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
