package sources

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
	"github.com/HomeDim/news-parser/internal/logger"
	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const lentaSourceName = "lenta.ru"

// lentaContentSelector matches the main article container on lenta.ru pages.
const lentaContentSelector = "div.topic-body__content"

var lentaDateLayouts = []string{time.RFC1123Z, time.RFC1123}

// lentaSource implements the Source strategy for lenta.ru. Article IDs
// are path segments, not numbers; there is no structured endpoint, so
// full text always comes from the HTML page.
type lentaSource struct {
	client  HTTPClient
	headers map[string]string
}

// NewLentaSource builds the lenta.ru strategy. A nil client gets the
// default session client derived from the config.
func NewLentaSource(client HTTPClient, cfg SourceConfig) Source {
	if client == nil {
		client = sessionClient(cfg)
	}
	headers := map[string]string{}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}
	return &lentaSource{client: client, headers: headers}
}

func (s *lentaSource) Name() string { return lentaSourceName }

// ExtractID takes the last non-empty path segment as the article ID:
// https://lenta.ru/news/2024/05/15/coffee/ -> "coffee".
func (s *lentaSource) ExtractID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		logger.WarnObj("lenta id extraction failed", "id_error", map[string]any{
			"url":   rawURL,
			"error": err.Error(),
		})
		return rawURL
	}

	segments := strings.Split(parsed.Path, "/")
	idx := len(segments) - 1
	if strings.HasSuffix(parsed.Path, "/") {
		idx = len(segments) - 2
	}
	if idx < 0 || segments[idx] == "" {
		logger.WarnObj("lenta url has no id segment", "id_error", map[string]any{"url": rawURL})
		return rawURL
	}
	return segments[idx]
}

// ResolveText scrapes the article body. Non-article URLs (video, photo
// galleries, anything outside the news section) resolve to empty string
// without fetching.
func (s *lentaSource) ResolveText(ctx context.Context, rawURL string) string {
	if !s.isArticleURL(rawURL) {
		return ""
	}

	resp, err := s.client.Get(ctx, rawURL, s.headers)
	if err != nil {
		logger.ErrorObj("lenta article fetch failed", "fetch_error", map[string]any{
			"url":   rawURL,
			"error": err.Error(),
		})
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		logger.ErrorObj("lenta article parse failed", "fetch_error", map[string]any{
			"url":   rawURL,
			"error": err.Error(),
		})
		return ""
	}

	content := doc.Find(lentaContentSelector).First()
	if content.Length() == 0 {
		return ""
	}
	return joinParagraphs(content)
}

func (s *lentaSource) isArticleURL(rawURL string) bool {
	return strings.Contains(rawURL, "lenta.ru/news") &&
		!containsAny(rawURL, "/video/", "/photo/")
}

func (s *lentaSource) ParseEntry(item *gofeed.Item, category string, loc *time.Location) (domain.NewsRecord, error) {
	return entryRecord(lentaSourceName, s.ExtractID, item, category, loc, lentaDateLayouts)
}
