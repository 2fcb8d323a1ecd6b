package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HomeDim/news-parser/internal/config"
	"github.com/HomeDim/news-parser/internal/domain"
	"github.com/HomeDim/news-parser/internal/logger"
	"github.com/HomeDim/news-parser/internal/pipeline"
	"github.com/HomeDim/news-parser/internal/writer"
	"github.com/HomeDim/news-parser/pkg/publishers"
	"github.com/HomeDim/news-parser/pkg/sources"
)

// Runner executes one collection pass: every configured source pipeline
// in order, each batch written to disk and optionally fanned out to
// downstream publishers. The process runs once and exits.
type Runner struct {
	cfg      *config.Config
	srcCfgs  []sources.SourceConfig
	registry *sources.Registry
	fanout   *publishers.Fanout
	log      logger.Logger
	now      func() time.Time
}

// sourceResult captures one source's outcome for the summary report.
type sourceResult struct {
	source     string
	records    int
	outputPath string
	err        error
}

// NewRunner builds a runner from config files.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	srcCfgs, err := sources.LoadConfigs(cfg.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("load sources registry: %w", err)
	}
	names := make([]string, 0, len(srcCfgs))
	for _, s := range srcCfgs {
		names = append(names, s.Name)
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count": len(names),
		"names": names,
	})

	registry, err := sources.DefaultRegistry(srcCfgs)
	if err != nil {
		return nil, fmt.Errorf("build source registry: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:      cfg,
		srcCfgs:  srcCfgs,
		registry: registry,
		fanout:   fanout,
		log:      log,
		now:      time.Now,
	}, nil
}

// buildFanout assembles the optional downstream publishers. An empty
// path disables publishing entirely.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return nil, nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		log.WarnObj("publishers file has no enabled entries", "publishers_file", path)
		return nil, nil
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count": len(pubs),
	})
	return publishers.NewFanout(pubs), nil
}

// Run executes every source pipeline sequentially and reports a summary.
// It fails only when no source succeeds.
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.registry == nil {
		return fmt.Errorf("runner is not initialized")
	}

	start := r.now()
	results := make([]sourceResult, 0, len(r.srcCfgs))
	for _, srcCfg := range r.srcCfgs {
		res := r.runSource(ctx, srcCfg)
		results = append(results, res)

		if res.err != nil {
			r.log.ErrorObj("source run failed", "source_result", map[string]any{
				"source": res.source,
				"error":  res.err.Error(),
			})
			continue
		}
		r.log.InfoObj("source run completed", "source_result", map[string]any{
			"source":  res.source,
			"records": res.records,
			"output":  res.outputPath,
		})
	}

	var errs []error
	succeeded := 0
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("source %s: %w", res.source, res.err))
		} else {
			succeeded++
		}
	}

	r.log.InfoObj("run finished", "run_summary", map[string]any{
		"sources":    len(results),
		"succeeded":  succeeded,
		"failed":     len(errs),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if succeeded == 0 && len(errs) > 0 {
		return fmt.Errorf("all sources failed: %w", errors.Join(errs...))
	}
	return nil
}

// runSource executes one source pipeline and persists its batch.
func (r *Runner) runSource(ctx context.Context, srcCfg sources.SourceConfig) sourceResult {
	res := sourceResult{source: srcCfg.Name}

	src, err := r.registry.SourceFor(srcCfg.Name)
	if err != nil {
		res.err = err
		return res
	}

	pl, err := pipeline.New(srcCfg, src, nil)
	if err != nil {
		res.err = err
		return res
	}

	records, err := pl.FetchAll(ctx)
	if err != nil {
		res.err = err
		return res
	}
	res.records = len(records)

	loc, err := srcCfg.Location()
	if err != nil {
		res.err = err
		return res
	}

	path, err := writer.WriteBatch(r.cfg.OutputDir, srcCfg.RawPrefix, r.now().In(loc), records)
	if err != nil {
		res.err = fmt.Errorf("write batch: %w", err)
		return res
	}
	res.outputPath = path

	r.publishRecords(ctx, records)
	return res
}

// publishRecords fans collected records out to downstream sinks. Sink
// failures are logged and never fail the source run.
func (r *Runner) publishRecords(ctx context.Context, records []domain.NewsRecord) {
	if r.fanout == nil || r.fanout.Size() == 0 {
		return
	}

	for _, rec := range records {
		if _, err := r.fanout.Publish(ctx, publishers.NewEvent(rec)); err != nil {
			r.log.ErrorObj("record publish failed", "publish_error", map[string]any{
				"source": rec.Source,
				"id":     rec.ID,
				"error":  err.Error(),
			})
		}
	}
}
