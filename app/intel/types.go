package intel

import (
	"time"
)

// Pipeline types

// RawRecord is one untyped item record as delivered by an external feed.
// Records are read-only input and are never mutated.
type RawRecord map[string]any

// Item is the canonical, pre-classification representation of a record.
// Timestamp is kept as the raw source string until the pipeline boundary
// parses it; items with unparsable timestamps are dropped there.
type Item struct {
	Timestamp     string
	FeedSource    string
	Title         string
	URL           string
	Summary       string
	RawContent    string
	Author        string
	Categories    []string
	Sector        string
	FundingAmount string
}

// ScoredItem is an Item that survived classification and scoring.
// Created once by the scorer and immutable afterwards.
type ScoredItem struct {
	Item
	PublishedAt     time.Time
	Category        string
	KeySignal       string
	OpportunityType string
	Score           int
	Priority        string
}

// Classification categories, in rule-table order.
const (
	CategoryFunding      = "Funding"
	CategoryProcurement  = "Procurement"
	CategoryHumanitarian = "Humanitarian Update"
	CategoryDevelopment  = "Development Program"
	CategoryPolicy       = "Policy Update"
)

// Priority tiers derived from the composite score.
const (
	PriorityHigh   = "HIGH PRIORITY"
	PriorityMedium = "MEDIUM PRIORITY"
	PriorityLow    = "LOW PRIORITY"
)

// SourceCoverage reports how many raw items a single feed source contributed
// before filtering.
type SourceCoverage struct {
	Source string
	Count  int
}

// LinkResult is the outcome of checking one outbound URL.
type LinkResult struct {
	URL        string
	StatusCode int
	Detail     string
	OK         bool
}
