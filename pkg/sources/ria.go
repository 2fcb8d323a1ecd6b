package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
	"github.com/HomeDim/news-parser/internal/logger"
	"github.com/HomeDim/news-parser/pkg/httpclient"
	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	riaSourceName = "ria.ru"
	riaAPIBaseURL = "https://ria.ru/api/"
)

// riaIDPatterns cover every known ria.ru URL shape, most specific first.
// Order is a deliberate priority; the first match wins.
var riaIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`-(\d+)\.html$`),
	regexp.MustCompile(`-(\d+)/?$`),
	regexp.MustCompile(`/(\d+)\.html$`),
	regexp.MustCompile(`/(\d+)/?$`),
	regexp.MustCompile(`/(\d+)$`),
	regexp.MustCompile(`_(\d+)\.html$`),
}

// riaFallbackPattern is the permissive last resort: a run of 8+ digits.
// Applied only to the final path segment so date components elsewhere in
// the URL cannot be mistaken for an article ID.
var riaFallbackPattern = regexp.MustCompile(`\d{8,}`)

// riaContentSelectors locate the article container in HTML fallback
// scraping, tried in order.
var riaContentSelectors = []string{"div.article__body", "div.article__text"}

var riaDateLayouts = []string{time.RFC1123Z, time.RFC1123}

// riaSource implements the Source strategy for ria.ru: numeric article
// IDs, a JSON article API keyed by that ID, and an HTML scrape fallback.
type riaSource struct {
	client  HTTPClient
	headers map[string]string
	apiBase string
}

// NewRIASource builds the ria.ru strategy. A nil client gets the default
// session client (rate-limited per the source config).
func NewRIASource(client HTTPClient, cfg SourceConfig) Source {
	if client == nil {
		client = sessionClient(cfg)
	}
	headers := map[string]string{
		"Accept":  "application/json",
		"Referer": "https://ria.ru/",
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	return &riaSource{client: client, headers: headers, apiBase: riaAPIBaseURL}
}

func (s *riaSource) Name() string { return riaSourceName }

// ExtractID applies the ordered ria.ru URL patterns and returns the raw
// URL when none match.
func (s *riaSource) ExtractID(rawURL string) string {
	if id, ok := riaNumericID(rawURL); ok {
		return id
	}
	logger.WarnObj("ria url matched no id pattern", "id_error", map[string]any{"url": rawURL})
	return rawURL
}

// riaNumericID extracts the numeric article ID, reporting whether any
// pattern matched.
func riaNumericID(rawURL string) (string, bool) {
	clean := cleanURL(rawURL)

	for _, pattern := range riaIDPatterns {
		if m := pattern.FindStringSubmatch(clean); m != nil {
			return m[1], true
		}
	}
	if m := riaFallbackPattern.FindString(lastPathSegment(clean)); m != "" {
		return m, true
	}
	return "", false
}

// ResolveText tries the article API first and falls back to scraping the
// page. Non-article URLs resolve to empty string without fetching.
func (s *riaSource) ResolveText(ctx context.Context, rawURL string) string {
	if containsAny(rawURL, "/video/", "/gallery/", "/infographics/") {
		return ""
	}

	if id, ok := riaNumericID(rawURL); ok {
		if text := s.fetchFromAPI(ctx, id); text != "" {
			return text
		}
	}

	return s.scrapeArticle(ctx, rawURL)
}

// fetchFromAPI queries the structured per-article endpoint. All failures
// degrade to empty string so the caller proceeds to the HTML fallback.
func (s *riaSource) fetchFromAPI(ctx context.Context, articleID string) string {
	apiURL := s.apiBase + articleID + ".json"

	resp, err := s.client.Get(ctx, apiURL, s.headers)
	if err != nil {
		logger.ErrorObj("ria api request failed", "fetch_error", map[string]any{
			"url":   apiURL,
			"error": err.Error(),
		})
		return ""
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		decodeErr := httpclient.NewDecodeError(apiURL, err)
		logger.ErrorObj("ria api response malformed", "fetch_error", map[string]any{
			"url":   apiURL,
			"error": decodeErr.Error(),
		})
		return ""
	}

	return payload.Text
}

// scrapeArticle extracts text from the article page: first matching
// content container wins, non-content children are stripped, paragraph
// texts are joined by single spaces.
func (s *riaSource) scrapeArticle(ctx context.Context, rawURL string) string {
	resp, err := s.client.Get(ctx, rawURL, s.headers)
	if err != nil {
		logger.ErrorObj("ria article fetch failed", "fetch_error", map[string]any{
			"url":   rawURL,
			"error": err.Error(),
		})
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		logger.ErrorObj("ria article parse failed", "fetch_error", map[string]any{
			"url":   rawURL,
			"error": err.Error(),
		})
		return ""
	}

	var body *goquery.Selection
	for _, sel := range riaContentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			body = found
			break
		}
	}
	if body == nil {
		return ""
	}

	body.Find("script, style, iframe, div.article__info").Remove()
	return joinParagraphs(body)
}

func (s *riaSource) ParseEntry(item *gofeed.Item, category string, loc *time.Location) (domain.NewsRecord, error) {
	return entryRecord(riaSourceName, s.ExtractID, item, category, loc, riaDateLayouts)
}
