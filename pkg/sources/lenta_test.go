package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func newTestLenta(client HTTPClient) Source {
	return NewLentaSource(client, SourceConfig{
		Name:      lentaSourceName,
		Timezone:  "Europe/Moscow",
		UserAgent: "test-agent",
	})
}

func TestLentaExtractID(t *testing.T) {
	src := newTestLenta(&routeClient{})

	cases := []struct {
		url  string
		want string
	}{
		{"https://lenta.ru/news/2024/05/15/coffee/", "coffee"},
		{"https://lenta.ru/news/2024/05/15/coffee", "coffee"},
		{"https://lenta.ru/news/2024/05/15/coffee/?utm=rss", "coffee"},
		{"https://lenta.ru/articles/2023/01/02/economy/", "economy"},
	}
	for _, tc := range cases {
		if got := src.ExtractID(tc.url); got != tc.want {
			t.Errorf("ExtractID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestLentaExtractIDFallsBackToURL(t *testing.T) {
	src := newTestLenta(&routeClient{})

	for _, u := range []string{"https://lenta.ru/", "://bad url"} {
		if got := src.ExtractID(u); got != u {
			t.Errorf("ExtractID(%q) = %q, want input unchanged", u, got)
		}
	}
}

func TestLentaResolveTextSkipsNonArticles(t *testing.T) {
	client := &routeClient{}
	src := newTestLenta(client)

	for _, u := range []string{
		"https://lenta.ru/video/2024/05/15/clip/",
		"https://lenta.ru/photo/2024/05/15/gallery/",
		"https://example.com/news/123/",
	} {
		if got := src.ResolveText(context.Background(), u); got != "" {
			t.Errorf("ResolveText(%q) = %q, want empty", u, got)
		}
	}
	if len(client.calls) != 0 {
		t.Fatalf("non-article urls must not be fetched, got calls %v", client.calls)
	}
}

func TestLentaResolveTextScrapesContainer(t *testing.T) {
	const articleURL = "https://lenta.ru/news/2024/05/15/coffee/"
	html := `<html><body>
<div class="topic-body__content">
  <p> First paragraph. </p>
  <p></p>
  <p>Second paragraph.</p>
</div>
</body></html>`

	client := &routeClient{responses: map[string]stubResponse{
		articleURL: {body: []byte(html)},
	}}
	src := newTestLenta(client)

	got := src.ResolveText(context.Background(), articleURL)
	want := "First paragraph. Second paragraph."
	if got != want {
		t.Fatalf("ResolveText = %q, want %q", got, want)
	}
}

func TestLentaResolveTextNoContainer(t *testing.T) {
	const articleURL = "https://lenta.ru/news/2024/05/15/coffee/"
	client := &routeClient{responses: map[string]stubResponse{
		articleURL: {body: []byte("<html><body><div>nothing here</div></body></html>")},
	}}
	src := newTestLenta(client)

	if got := src.ResolveText(context.Background(), articleURL); got != "" {
		t.Fatalf("expected empty text without container, got %q", got)
	}
}

func TestLentaResolveTextFetchFailure(t *testing.T) {
	// no canned response: the fetch fails and text degrades to empty
	src := newTestLenta(&routeClient{})
	if got := src.ResolveText(context.Background(), "https://lenta.ru/news/2024/05/15/coffee/"); got != "" {
		t.Fatalf("expected empty text on fetch failure, got %q", got)
	}
}

func TestLentaParseEntry(t *testing.T) {
	src := newTestLenta(&routeClient{})
	loc, _ := time.LoadLocation("Europe/Moscow")

	published := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:           "Coffee prices climb",
		Link:            "https://lenta.ru/news/2024/05/15/coffee/",
		Published:       "Wed, 15 May 2024 10:00:00 +0000",
		PublishedParsed: &published,
	}

	rec, err := src.ParseEntry(item, "economy", loc)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if rec.ID != "coffee" || rec.Source != lentaSourceName {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(rec.Categories) != 1 || rec.Categories[0] != "economy" {
		t.Fatalf("unexpected categories %v", rec.Categories)
	}
	if rec.PubDate.Location().String() != "Europe/Moscow" {
		t.Fatalf("pub date not converted to source timezone: %v", rec.PubDate)
	}
	if rec.RawContent != "" {
		t.Fatalf("ParseEntry must leave raw content empty")
	}
}

func TestLentaParseEntryMissingFields(t *testing.T) {
	src := newTestLenta(&routeClient{})
	loc := time.UTC

	_, err := src.ParseEntry(&gofeed.Item{Title: "no link"}, "top", loc)
	if !errors.Is(err, ErrMissingLink) {
		t.Fatalf("expected ErrMissingLink, got %v", err)
	}

	_, err = src.ParseEntry(&gofeed.Item{Link: "https://lenta.ru/news/2024/05/15/x/"}, "top", loc)
	if !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}

	_, err = src.ParseEntry(&gofeed.Item{
		Title:     "bad date",
		Link:      "https://lenta.ru/news/2024/05/15/x/",
		Published: "not a date",
	}, "top", loc)
	if !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}
}

func TestLentaParseEntryDateFallbackLayout(t *testing.T) {
	src := newTestLenta(&routeClient{})
	loc, _ := time.LoadLocation("Europe/Moscow")

	// PublishedParsed absent: the raw RFC1123Z string must still parse
	item := &gofeed.Item{
		Title:     "Fallback date",
		Link:      "https://lenta.ru/news/2024/05/15/fallback/",
		Published: "Wed, 15 May 2024 10:00:00 +0300",
	}

	rec, err := src.ParseEntry(item, "top", loc)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	want := time.Date(2024, time.May, 15, 10, 0, 0, 0, loc)
	if !rec.PubDate.Equal(want) {
		t.Fatalf("PubDate = %v, want %v", rec.PubDate, want)
	}
}
