package api

import (
	"time"

	"github.com/partnerai/intel-digest/app/database"
	"github.com/partnerai/intel-digest/app/intel"
	"github.com/partnerai/intel-digest/app/report"
)

type Handler struct {
	reportRepo database.ReportRepository
	pipeline   *intel.Pipeline
	generator  *report.HTMLGenerator
}

// IngestResponse is returned by the ingest endpoint after a pipeline run.
type IngestResponse struct {
	ReportID       int64                  `json:"report_id"`
	GeneratedAt    time.Time              `json:"generated_at"`
	RawCount       int                    `json:"raw_count"`
	PublishedCount int                    `json:"published_count"`
	Items          []IngestItem           `json:"items"`
	Coverage       []intel.SourceCoverage `json:"coverage"`
}

type IngestItem struct {
	Title           string    `json:"title"`
	URL             string    `json:"url,omitempty"`
	FeedSource      string    `json:"feed_source"`
	Category        string    `json:"category"`
	Sector          string    `json:"sector,omitempty"`
	OpportunityType string    `json:"opportunity_type"`
	FundingAmount   string    `json:"funding_amount,omitempty"`
	KeySignal       string    `json:"key_signal"`
	Score           int       `json:"score"`
	Priority        string    `json:"priority"`
	PublishedAt     time.Time `json:"published_at"`
}

func toIngestItems(items []intel.ScoredItem) []IngestItem {
	out := make([]IngestItem, 0, len(items))
	for _, item := range items {
		out = append(out, IngestItem{
			Title:           item.Title,
			URL:             item.URL,
			FeedSource:      item.FeedSource,
			Category:        item.Category,
			Sector:          item.Sector,
			OpportunityType: item.OpportunityType,
			FundingAmount:   item.FundingAmount,
			KeySignal:       item.KeySignal,
			Score:           item.Score,
			Priority:        item.Priority,
			PublishedAt:     item.PublishedAt,
		})
	}
	return out
}
