package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
	"github.com/HomeDim/news-parser/internal/logger"
	"github.com/HomeDim/news-parser/pkg/httpclient"
	"github.com/HomeDim/news-parser/pkg/sources"
	"github.com/mmcdole/gofeed"
)

// ErrNoRecords marks a run that produced zero records. Whether that is
// terminal for the source is the fail_on_empty policy in its config.
var ErrNoRecords = errors.New("no records collected")

// Pipeline runs the full collection pass for one source: channels in
// configuration order, entries in feed order, each normalized and (when
// fresh) enriched with full text.
type Pipeline struct {
	cfg        sources.SourceConfig
	src        sources.Source
	feedClient httpclient.Client
	parser     *gofeed.Parser
	loc        *time.Location
	now        func() time.Time
}

// New builds a pipeline for the source config using the registered
// strategy. A nil feedClient gets a fresh session client for feed
// downloads, separate from the strategy's article client.
func New(cfg sources.SourceConfig, src sources.Source, feedClient httpclient.Client) (*Pipeline, error) {
	if src == nil {
		return nil, fmt.Errorf("source strategy must not be nil")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if feedClient == nil {
		feedClient = httpclient.NewRateLimitedClient(
			httpclient.NewRestyClient(cfg.RequestTimeout()),
			cfg.RateLimitPerSecond,
		)
	}

	return &Pipeline{
		cfg:        cfg,
		src:        src,
		feedClient: feedClient,
		parser:     gofeed.NewParser(),
		loc:        loc,
		now:        time.Now,
	}, nil
}

// FetchAll collects records across all configured channels. Channel
// failures are logged and skipped; the remaining channels still run.
// The returned slice is always non-nil, so zero records stays
// distinguishable from records with empty content.
func (p *Pipeline) FetchAll(ctx context.Context) ([]domain.NewsRecord, error) {
	cutoff := p.now().In(p.loc).Add(-p.cfg.Lookback())
	records := make([]domain.NewsRecord, 0)

	for _, ch := range p.cfg.Channels {
		items, err := p.fetchChannel(ctx, ch)
		if err != nil {
			logger.ErrorObj("channel processing failed", "channel_error", map[string]any{
				"source":  p.cfg.Name,
				"channel": ch.Name,
				"error":   err.Error(),
			})
			continue
		}

		if len(items) > ch.MaxNews {
			items = items[:ch.MaxNews]
		}

		emitted := 0
		for _, item := range items {
			rec, ok := p.normalize(ctx, item, ch, cutoff)
			if !ok {
				continue
			}
			records = append(records, rec)
			emitted++
		}

		logger.InfoObj("channel processed", "channel_result", map[string]any{
			"source":  p.cfg.Name,
			"channel": ch.Name,
			"fetched": len(items),
			"emitted": emitted,
		})
	}

	if len(records) == 0 && p.cfg.FailOnEmpty {
		return records, fmt.Errorf("source %s: %w", p.cfg.Name, ErrNoRecords)
	}
	return records, nil
}

// fetchChannel downloads and parses one RSS feed through the session
// client so feed requests share the source's headers and rate budget.
func (p *Pipeline) fetchChannel(ctx context.Context, ch sources.ChannelConfig) ([]*gofeed.Item, error) {
	headers := map[string]string{}
	if p.cfg.UserAgent != "" {
		headers["User-Agent"] = p.cfg.UserAgent
	}

	resp, err := p.feedClient.Get(ctx, ch.URL, headers)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", ch.URL, err)
	}

	feed, err := p.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", ch.URL, err)
	}
	return feed.Items, nil
}

// normalize converts one raw entry into a canonical record. Entries
// missing mandatory fields or carrying unparsable dates are dropped.
// Records older than the cutoff are still emitted, just without full
// text, so stale items cost no article fetches.
func (p *Pipeline) normalize(ctx context.Context, item *gofeed.Item, ch sources.ChannelConfig, cutoff time.Time) (domain.NewsRecord, bool) {
	rec, err := p.src.ParseEntry(item, ch.Category, p.loc)
	if err != nil {
		logger.WarnObj("feed entry dropped", "entry_error", map[string]any{
			"source":  p.cfg.Name,
			"channel": ch.Name,
			"error":   err.Error(),
		})
		return domain.NewsRecord{}, false
	}

	if !rec.PubDate.Before(cutoff) {
		rec.RawContent = p.src.ResolveText(ctx, rec.URL)
	}
	return rec, true
}
