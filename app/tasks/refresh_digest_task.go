package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/partnerai/intel-digest/app/database"
	"github.com/partnerai/intel-digest/app/feed"
	"github.com/partnerai/intel-digest/app/intel"
	"github.com/partnerai/intel-digest/app/report"
)

// RefreshDigestTask fetches every enabled source, runs the pipeline over
// the combined records, and persists the regenerated digest.
type RefreshDigestTask struct {
	Task
	sources    []*feed.Source
	fetcher    *feed.Fetcher
	pipeline   *intel.Pipeline
	generator  *report.HTMLGenerator
	reportRepo database.ReportRepository
}

func NewRefreshDigestTask(sources []*feed.Source, fetcher *feed.Fetcher,
	generator *report.HTMLGenerator, reportRepo database.ReportRepository) *RefreshDigestTask {
	return &RefreshDigestTask{
		Task:       NewTask(TaskTypeRefreshDigest),
		sources:    sources,
		fetcher:    fetcher,
		pipeline:   intel.NewPipeline(),
		generator:  generator,
		reportRepo: reportRepo,
	}
}

func (t *RefreshDigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var records []intel.RawRecord
	fetched := 0
	for _, source := range t.sources {
		if !source.Settings.Enabled {
			slog.Debug("Source disabled, skipping", "source", source.Name)
			continue
		}

		sourceRecords, err := t.fetcher.Run(ctx, source)
		if err != nil {
			// One broken source must not sink the whole digest run.
			slog.Warn("Source fetch failed", "source", source.Name, "error", err)
			continue
		}

		records = append(records, sourceRecords...)
		fetched++
	}

	if fetched == 0 && len(t.sources) > 0 {
		return fmt.Errorf("all %d sources failed to fetch", len(t.sources))
	}

	now := time.Now().UTC()
	result := t.pipeline.Run(records, now)

	html := t.generator.Run(now.Format("2006-01-02"), result.Items)
	reportID, err := t.reportRepo.SaveReport(now, result.RawCount, html, result.Items)
	if err != nil {
		return fmt.Errorf("failed to store digest: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshDigest",
		"duration", t.GetDuration(),
		"report_id", reportID,
		"sources", fetched,
		"raw", result.RawCount,
		"published", len(result.Items))

	return nil
}
