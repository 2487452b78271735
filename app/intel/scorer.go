package intel

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Region and crisis tokens, scanned in order; the first hit wins.
var regionTokens = []string{
	"global",
	"africa",
	"asia",
	"latin america",
	"middle east",
	"europe",
	"caribbean",
	"pacific",
	"ukraine",
	"sudan",
	"gaza",
}

var highImpactTokens = []string{
	"global",
	"multi-country",
	"nationwide",
	"emergency",
	"appeal",
	"million",
	"billion",
	"urgent",
}

var mediumImpactTokens = []string{
	"regional",
	"national",
	"program",
	"policy",
	"agriculture",
	"health",
	"education",
	"climate",
	"food security",
}

var titleCaser = cases.Title(language.English)

type Scorer struct {
	classifier *Classifier
}

func NewScorer() *Scorer {
	return &Scorer{classifier: NewClassifier()}
}

// Run classifies and scores one normalized item. A nil result means the
// item was classified as irrelevant and must be dropped.
func (s *Scorer) Run(item Item, timestamp, now time.Time) *ScoredItem {
	// Feed tags inform classification and region detection but never
	// impact, which scans the item body only.
	baseText := item.Title + " " + item.Summary + " " + item.RawContent
	combined := baseText + " " + strings.Join(item.Categories, " ")
	category, signal, strength := s.classifier.Run(combined)

	if s.classifier.IsIrrelevant(item, category, strength) {
		return nil
	}

	recency := recencyScore(timestamp, now)
	region := DetectRegion(combined)
	impact := impactScore(baseText, category)
	completeness := completenessScore(item, region)

	score := clampScore(recency + strength + impact + completeness)

	return &ScoredItem{
		Item:            item,
		PublishedAt:     timestamp,
		Category:        category,
		KeySignal:       signal,
		OpportunityType: OpportunityType(category),
		Score:           score,
		Priority:        PriorityForScore(score),
	}
}

// recencyScore rewards items published within the last one or two weeks.
func recencyScore(timestamp, now time.Time) int {
	ageDays := int(now.Sub(timestamp).Hours() / 24)
	switch {
	case ageDays <= 7:
		return 3
	case ageDays <= 14:
		return 2
	default:
		return 1
	}
}

// DetectRegion returns the title-cased first region token found in the
// text, or an empty string.
func DetectRegion(text string) string {
	lower := strings.ToLower(text)
	for _, token := range regionTokens {
		if strings.Contains(lower, token) {
			return titleCaser.String(token)
		}
	}
	return ""
}

func impactScore(text, category string) int {
	lower := strings.ToLower(text)

	for _, token := range highImpactTokens {
		if strings.Contains(lower, token) {
			return 2
		}
	}

	for _, token := range mediumImpactTokens {
		if strings.Contains(lower, token) {
			return 1
		}
	}

	switch category {
	case CategoryFunding, CategoryProcurement, CategoryHumanitarian:
		return 1
	}

	return 0
}

func completenessScore(item Item, region string) int {
	present := 0
	if item.Title != "" {
		present++
	}
	if item.Summary != "" || item.RawContent != "" {
		present++
	}
	if item.URL != "" {
		present++
	}
	if item.FeedSource != "" || item.Author != "" {
		present++
	}
	if region != "" {
		present++
	}

	switch {
	case present >= 5:
		return 2
	case present >= 3:
		return 1
	default:
		return 0
	}
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// PriorityForScore maps a composite score to its priority tier.
func PriorityForScore(score int) string {
	switch {
	case score >= 8:
		return PriorityHigh
	case score >= 5:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
