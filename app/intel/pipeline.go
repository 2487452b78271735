package intel

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ReportWindow is how far back an item may be dated and still appear in
// the digest. Items exactly at the boundary are kept.
const ReportWindow = 30 * 24 * time.Hour

// Result is the outcome of one pipeline run.
type Result struct {
	Items    []ScoredItem
	Coverage []SourceCoverage
	RawCount int
}

// Pipeline turns raw feed records into a ranked, deduplicated, scored item
// list. It is a pure function of (records, now): running it twice on the
// same input yields the same ordered output.
type Pipeline struct {
	normalizer *Normalizer
	deduper    *Deduper
	scorer     *Scorer
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		normalizer: NewNormalizer(),
		deduper:    NewDeduper(),
		scorer:     NewScorer(),
	}
}

func (p *Pipeline) Run(records []RawRecord, now time.Time) Result {
	cutoff := now.Add(-ReportWindow)

	normalized := make([]Item, 0, len(records))
	dated := make([]Item, 0, len(records))

	for _, record := range records {
		item := p.normalizer.Run(record)
		normalized = append(normalized, item)

		timestamp, ok := ParseTimestamp(item.Timestamp)
		if !ok {
			slog.Debug("Dropping item without usable timestamp", "title", item.Title, "source", item.FeedSource)
			continue
		}
		if timestamp.Before(cutoff) {
			continue
		}

		dated = append(dated, item)
	}

	unique := p.deduper.Run(dated)

	scored := make([]ScoredItem, 0, len(unique))
	for _, item := range unique {
		timestamp, _ := ParseTimestamp(item.Timestamp)
		if entry := p.scorer.Run(item, timestamp, now); entry != nil {
			scored = append(scored, *entry)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].PublishedAt.After(scored[j].PublishedAt)
	})

	return Result{
		Items:    scored,
		Coverage: sourceCoverage(normalized),
		RawCount: len(records),
	}
}

// ParseTimestamp parses an arbitrary timestamp string into UTC. Timestamps
// without a zone are taken as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}

	return parsed.UTC(), true
}

// sourceCoverage counts pre-filter items per feed source, most active
// sources first.
func sourceCoverage(items []Item) []SourceCoverage {
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.FeedSource]++
	}

	coverage := make([]SourceCoverage, 0, len(counts))
	for source, count := range counts {
		coverage = append(coverage, SourceCoverage{Source: source, Count: count})
	}

	sort.Slice(coverage, func(i, j int) bool {
		if coverage[i].Count != coverage[j].Count {
			return coverage[i].Count > coverage[j].Count
		}
		return strings.ToLower(coverage[i].Source) < strings.ToLower(coverage[j].Source)
	})

	return coverage
}
