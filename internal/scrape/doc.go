// Package scrape parses the audiobook site's HTML pages into records.
//
// The package handles two page shapes:
//
//  1. The listing page, which carries one div.audiobook element per
//     entry (title, item id, optional author and cover image)
//  2. Per-item detail pages, which carry the MP3 URL in a
//     source[type="audio/mpeg"] element
//
// # Listing Parsing
//
//	parser := scrape.NewParser(pathConfig)
//	result, err := parser.ParseListing(htmlContent)
//	if errors.Is(err, scrape.ErrNoAudiobooks) {
//	    // page had no entries at all
//	}
//	for _, skipped := range result.Skipped {
//	    log.Printf("entry %d skipped: %s", skipped.Position, skipped.Reason)
//	}
//
// Entries missing a mandatory field (title, data-id) are skipped and
// reported; they never fail the page. Optional fields may be absent.
//
// # Detail Parsing
//
//	url := scrape.DetailURL(settings.DetailURLTemplate, rec.PageID)
//	html, _ := client.GetString(ctx, url)
//	mp3URL, err := scrape.ParseAudioSource(html)
package scrape
