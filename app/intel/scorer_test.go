package intel

import (
	"testing"
	"time"
)

var scorerNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		age      time.Duration
		expected int
	}{
		{2 * 24 * time.Hour, 3},
		{7 * 24 * time.Hour, 3},
		{10 * 24 * time.Hour, 2},
		{14 * 24 * time.Hour, 2},
		{20 * 24 * time.Hour, 1},
	}

	for _, test := range tests {
		got := recencyScore(scorerNow.Add(-test.age), scorerNow)
		if got != test.expected {
			t.Errorf("Age %v: expected recency %d, got %d", test.age, test.expected, got)
		}
	}
}

func TestDetectRegion(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Flooding across the Sahel in Africa", "Africa"},
		{"appeal for latin america and the caribbean", "Latin America"},
		{"situation in gaza deteriorates", "Gaza"},
		{"no geography mentioned", ""},
		// "global" is listed first, so it wins over later tokens.
		{"global response to the sudan crisis", "Global"},
	}

	for _, test := range tests {
		if got := DetectRegion(test.text); got != test.expected {
			t.Errorf("Text %q: expected region %q, got %q", test.text, test.expected, got)
		}
	}
}

func TestImpactScore(t *testing.T) {
	tests := []struct {
		text     string
		category string
		expected int
	}{
		{"nationwide emergency declared", CategoryPolicy, 2},
		{"$30 million pledged", CategoryDevelopment, 2},
		{"regional workshop on irrigation", CategoryDevelopment, 1},
		{"quiet quarter for the office", CategoryFunding, 1},
		{"quiet quarter for the office", CategoryDevelopment, 0},
	}

	for i, test := range tests {
		if got := impactScore(test.text, test.category); got != test.expected {
			t.Errorf("Case %d: expected impact %d, got %d", i, test.expected, got)
		}
	}
}

func TestCompletenessScore(t *testing.T) {
	full := Item{
		Title:      "Title",
		Summary:    "Summary",
		URL:        "https://reliefweb.int/x",
		FeedSource: "ReliefWeb",
	}
	if got := completenessScore(full, "Africa"); got != 2 {
		t.Errorf("Expected completeness 2 for all five signals, got %d", got)
	}

	partial := Item{Title: "Title", Summary: "Summary", FeedSource: "ReliefWeb"}
	if got := completenessScore(partial, ""); got != 1 {
		t.Errorf("Expected completeness 1 for three signals, got %d", got)
	}

	sparse := Item{Title: "Title"}
	if got := completenessScore(sparse, ""); got != 0 {
		t.Errorf("Expected completeness 0, got %d", got)
	}
}

func TestPriorityForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{10, PriorityHigh},
		{8, PriorityHigh},
		{7, PriorityMedium},
		{5, PriorityMedium},
		{4, PriorityLow},
		{1, PriorityLow},
	}

	for _, test := range tests {
		if got := PriorityForScore(test.score); got != test.expected {
			t.Errorf("Score %d: expected %q, got %q", test.score, test.expected, got)
		}
	}
}

func TestScorer_ScoreBounds(t *testing.T) {
	scorer := NewScorer()

	items := []Item{
		{},
		{Title: "bare item"},
		{
			Title:      "Global emergency appeal for Sudan",
			Summary:    "$900 billion urgent multi-country humanitarian crisis response",
			RawContent: "nationwide emergency relief appeal",
			URL:        "https://reliefweb.int/x",
			FeedSource: "ReliefWeb",
			Author:     "OCHA",
		},
	}

	for i, item := range items {
		scored := scorer.Run(item, scorerNow.Add(-24*time.Hour), scorerNow)
		if scored == nil {
			continue
		}
		if scored.Score < 1 || scored.Score > 10 {
			t.Errorf("Item %d: score %d outside [1,10]", i, scored.Score)
		}
	}
}

func TestScorer_DropsIrrelevantItems(t *testing.T) {
	scorer := NewScorer()

	item := Item{Title: "Podcast: aid sector trends"}

	if scored := scorer.Run(item, scorerNow, scorerNow); scored != nil {
		t.Errorf("Expected irrelevant item to be dropped, got score %d", scored.Score)
	}
}

func TestScorer_TagsDoNotInflateImpact(t *testing.T) {
	scorer := NewScorer()

	item := Item{
		Title:      "Teacher training pilot",
		Categories: []string{"nationwide"},
	}

	scored := scorer.Run(item, scorerNow.Add(-2*24*time.Hour), scorerNow)
	if scored == nil {
		t.Fatal("Expected the item to survive scoring")
	}

	// recency 3 + strength 2 + impact 0 + completeness 0. The impact scan
	// covers the item body only, so the "nationwide" tag must not add 2.
	if scored.Score != 5 {
		t.Errorf("Expected score 5, got %d", scored.Score)
	}
	if scored.Priority != PriorityMedium {
		t.Errorf("Expected %q, got %q", PriorityMedium, scored.Priority)
	}
}

func TestScorer_EmergencyAppealScenario(t *testing.T) {
	scorer := NewScorer()

	item := Item{
		Title:      "Emergency Appeal for Sudan Crisis Response",
		Summary:    "Global flash appeal for urgent humanitarian relief, $50 million requested",
		URL:        "https://reliefweb.int/x",
		FeedSource: "ReliefWeb",
	}

	scored := scorer.Run(item, scorerNow.Add(-3*24*time.Hour), scorerNow)
	if scored == nil {
		t.Fatal("Expected the item to survive scoring")
	}

	if scored.Category != CategoryHumanitarian {
		t.Errorf("Expected Humanitarian Update, got %q", scored.Category)
	}
	if scored.OpportunityType != "Humanitarian" {
		t.Errorf("Expected Humanitarian opportunity type, got %q", scored.OpportunityType)
	}
	// recency 3 + strength 3 + impact 2 + completeness 2, clamped at 10.
	if scored.Score != 10 {
		t.Errorf("Expected score 10, got %d", scored.Score)
	}
	if scored.Priority != PriorityHigh {
		t.Errorf("Expected %q, got %q", PriorityHigh, scored.Priority)
	}
}
