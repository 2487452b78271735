package intel

import (
	"reflect"
	"testing"
	"time"
)

var pipelineNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func recordAt(title string, published time.Time) RawRecord {
	return RawRecord{
		"title":     title,
		"summary":   "Emergency grant funding appeal for the region",
		"url":       "https://reliefweb.int/" + title,
		"source":    "ReliefWeb",
		"timestamp": published.Format(time.RFC3339),
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	pipeline := NewPipeline()

	payload := map[string]any{
		"items": []any{
			map[string]any{
				"title":     "Emergency Appeal for Sudan Crisis Response",
				"summary":   "Global flash appeal for urgent humanitarian relief, $50 million requested",
				"url":       "https://reliefweb.int/x",
				"timestamp": pipelineNow.Add(-3 * 24 * time.Hour).Format(time.RFC3339),
			},
		},
	}

	result := pipeline.Run(ExtractRecords(payload), pipelineNow)

	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 scored item, got %d", len(result.Items))
	}

	item := result.Items[0]
	if item.Category != CategoryHumanitarian {
		t.Errorf("Expected Humanitarian Update, got %q", item.Category)
	}
	if item.Score != 10 {
		t.Errorf("Expected score 10, got %d", item.Score)
	}
	if item.Priority != PriorityHigh {
		t.Errorf("Expected %q, got %q", PriorityHigh, item.Priority)
	}
	if item.FundingAmount != "$50 million" {
		t.Errorf("Expected extracted funding amount, got %q", item.FundingAmount)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	pipeline := NewPipeline()

	records := []RawRecord{
		recordAt("a", pipelineNow.Add(-2*24*time.Hour)),
		recordAt("b", pipelineNow.Add(-12*24*time.Hour)),
		recordAt("c", pipelineNow.Add(-5*24*time.Hour)),
	}

	first := pipeline.Run(records, pipelineNow)
	second := pipeline.Run(records, pipelineNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("Pipeline runs on identical input should yield identical results")
	}
}

func TestPipeline_ThirtyDayCutoff(t *testing.T) {
	pipeline := NewPipeline()

	records := []RawRecord{
		recordAt("too-old", pipelineNow.Add(-30*24*time.Hour-time.Second)),
		recordAt("exactly-30d", pipelineNow.Add(-30*24*time.Hour)),
		recordAt("recent", pipelineNow.Add(-29*24*time.Hour)),
	}

	result := pipeline.Run(records, pipelineNow)

	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 surviving items, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if item.Title == "too-old" {
			t.Error("Item 30 days and 1 second old should be excluded")
		}
	}
}

func TestPipeline_DropsUnparsableTimestamps(t *testing.T) {
	pipeline := NewPipeline()

	records := []RawRecord{
		{"title": "no timestamp", "url": "https://reliefweb.int/1"},
		{"title": "garbage timestamp", "url": "https://reliefweb.int/2", "timestamp": "not a date"},
		recordAt("valid", pipelineNow.Add(-24*time.Hour)),
	}

	result := pipeline.Run(records, pipelineNow)

	if len(result.Items) != 1 {
		t.Fatalf("Expected 1 surviving item, got %d", len(result.Items))
	}
	if result.Items[0].Title != "valid" {
		t.Errorf("Wrong survivor: %q", result.Items[0].Title)
	}
}

func TestPipeline_DeduplicatesByURL(t *testing.T) {
	pipeline := NewPipeline()

	duplicate := recordAt("a", pipelineNow.Add(-24*time.Hour))
	duplicate["url"] = "https://RELIEFWEB.INT/a"
	records := []RawRecord{
		recordAt("a", pipelineNow.Add(-24*time.Hour)),
		duplicate,
	}

	result := pipeline.Run(records, pipelineNow)

	if len(result.Items) != 1 {
		t.Errorf("Expected URL-duplicate to be dropped, got %d items", len(result.Items))
	}
}

func TestPipeline_Ordering(t *testing.T) {
	pipeline := NewPipeline()

	// Older items score lower on recency; within equal scores the more
	// recent timestamp ranks first.
	records := []RawRecord{
		recordAt("old-low", pipelineNow.Add(-20*24*time.Hour)),
		recordAt("recent-1", pipelineNow.Add(-4*24*time.Hour)),
		recordAt("recent-2", pipelineNow.Add(-2*24*time.Hour)),
	}

	result := pipeline.Run(records, pipelineNow)

	if len(result.Items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(result.Items))
	}
	if result.Items[0].Title != "recent-2" || result.Items[1].Title != "recent-1" {
		t.Errorf("Unexpected order: %q, %q, %q",
			result.Items[0].Title, result.Items[1].Title, result.Items[2].Title)
	}
	if result.Items[2].Title != "old-low" {
		t.Errorf("Expected lowest-scoring item last, got %q", result.Items[2].Title)
	}
}

func TestPipeline_SourceCoverage(t *testing.T) {
	pipeline := NewPipeline()

	records := []RawRecord{
		{"title": "1", "source": "Devex"},
		{"title": "2", "source": "ReliefWeb"},
		{"title": "3", "source": "ReliefWeb"},
		{"title": "4", "source": "alertnet"},
	}

	result := pipeline.Run(records, pipelineNow)

	// Coverage counts every raw item, including ones later dropped for
	// missing timestamps.
	expected := []SourceCoverage{
		{Source: "ReliefWeb", Count: 2},
		{Source: "alertnet", Count: 1},
		{Source: "Devex", Count: 1},
	}
	if !reflect.DeepEqual(result.Coverage, expected) {
		t.Errorf("Unexpected coverage: %v", result.Coverage)
	}
	if result.RawCount != 4 {
		t.Errorf("Expected raw count 4, got %d", result.RawCount)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"2026-08-20T10:00:00Z", true},
		{"Mon, 02 Jan 2006 15:04:05 -0700", true},
		{"2026-08-20", true},
		{"", false},
		{"not a date", false},
	}

	for _, test := range tests {
		parsed, ok := ParseTimestamp(test.value)
		if ok != test.ok {
			t.Errorf("ParseTimestamp(%q): expected ok=%v, got %v", test.value, test.ok, ok)
			continue
		}
		if ok && parsed.Location() != time.UTC {
			t.Errorf("ParseTimestamp(%q): expected UTC result", test.value)
		}
	}
}

func TestParseTimestamp_NaiveAssumedUTC(t *testing.T) {
	parsed, ok := ParseTimestamp("2026-08-20 10:00:00")
	if !ok {
		t.Fatal("Expected naive timestamp to parse")
	}

	expected := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if !parsed.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, parsed)
	}
}
