package sources

import (
	"context"
	"errors"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
	"github.com/HomeDim/news-parser/pkg/httpclient"
	"github.com/mmcdole/gofeed"
)

// Source bundles the publisher-specific capabilities: stable-ID
// extraction, full-text resolution, and raw entry parsing. One
// implementation exists per publisher; the registry resolves them by
// configured source name.
type Source interface {
	Name() string

	// ExtractID derives a stable article identifier from a URL. It never
	// fails: when no pattern matches, the original URL is returned so the
	// caller can rely on a non-empty ID.
	ExtractID(rawURL string) string

	// ResolveText returns the full article body for the URL, or empty
	// string when the URL is not an article or both resolution attempts
	// fail. It never returns an error.
	ResolveText(ctx context.Context, rawURL string) string

	// ParseEntry converts a raw feed item into a metadata-complete record
	// (RawContent left empty). Entry errors below tell "absent" apart
	// from "malformed".
	ParseEntry(item *gofeed.Item, category string, loc *time.Location) (domain.NewsRecord, error)
}

// Entry parse error kinds. Callers drop the single entry and continue.
var (
	ErrMissingLink  = errors.New("feed entry has no link")
	ErrMissingTitle = errors.New("feed entry has no title")
	ErrBadDate      = errors.New("feed entry has unparsable publication date")
)

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client
