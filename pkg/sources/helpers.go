package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
	"github.com/HomeDim/news-parser/pkg/httpclient"
	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// sessionClient builds the default per-source HTTP client: resty with the
// configured timeout, wrapped by the session-scoped token bucket.
func sessionClient(cfg SourceConfig) HTTPClient {
	return httpclient.NewRateLimitedClient(
		httpclient.NewRestyClient(cfg.RequestTimeout()),
		cfg.RateLimitPerSecond,
	)
}

// entryRecord builds a metadata-complete NewsRecord from a feed item.
// Link and title are mandatory; the publication date must be parsable.
func entryRecord(source string, extractID func(string) string, item *gofeed.Item, category string, loc *time.Location, layouts []string) (domain.NewsRecord, error) {
	if item == nil {
		return domain.NewsRecord{}, ErrMissingLink
	}

	link := strings.TrimSpace(item.Link)
	if link == "" {
		return domain.NewsRecord{}, ErrMissingLink
	}
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return domain.NewsRecord{}, ErrMissingTitle
	}

	pubDate, err := entryDate(item, loc, layouts)
	if err != nil {
		return domain.NewsRecord{}, err
	}

	return domain.NewsRecord{
		Source:     source,
		ID:         extractID(link),
		Title:      title,
		URL:        link,
		PubDate:    pubDate,
		Categories: []string{category},
		RawContent: "",
	}, nil
}

// entryDate resolves the item's publication time in the source timezone.
// The feed parser's pre-parsed value wins; otherwise the source's known
// date layouts are tried against the raw string.
func entryDate(item *gofeed.Item, loc *time.Location, layouts []string) (time.Time, error) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.In(loc), nil
	}

	raw := strings.TrimSpace(item.Published)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: date field absent", ErrBadDate)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, raw)
}

// cleanURL strips query string, fragment, and trailing slashes before
// identifier matching.
func cleanURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimRight(raw, "/")
}

// lastPathSegment returns the final non-empty path segment of a cleaned URL.
func lastPathSegment(clean string) string {
	if i := strings.LastIndexByte(clean, '/'); i >= 0 {
		return clean[i+1:]
	}
	return clean
}

// joinParagraphs concatenates the trimmed text of every paragraph in the
// selection, separated by single spaces; empty paragraphs are skipped.
func joinParagraphs(container *goquery.Selection) string {
	var parts []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
