package intel

import (
	"testing"
)

func TestDeduper_URLCaseInsensitive(t *testing.T) {
	deduper := NewDeduper()

	items := []Item{
		{Title: "First", URL: "https://reliefweb.int/Report/123"},
		{Title: "Second", URL: "https://reliefweb.int/report/123"},
		{Title: "Third", URL: "https://reliefweb.int/report/456"},
	}

	unique := deduper.Run(items)

	if len(unique) != 2 {
		t.Fatalf("Expected 2 unique items, got %d", len(unique))
	}
	if unique[0].Title != "First" {
		t.Errorf("Expected first occurrence to survive, got %q", unique[0].Title)
	}
	if unique[1].Title != "Third" {
		t.Errorf("Expected order preserved, got %q", unique[1].Title)
	}
}

func TestDeduper_ContentHashWithoutURL(t *testing.T) {
	deduper := NewDeduper()

	items := []Item{
		{Title: "Same story", Summary: "Details", FeedSource: "Wire", Timestamp: "2026-08-20"},
		{Title: "Same story", Summary: "Details", FeedSource: "Wire", Timestamp: "2026-08-20"},
		{Title: "Same story", Summary: "Details", FeedSource: "Wire", Timestamp: "2026-08-21"},
	}

	unique := deduper.Run(items)

	// Third item differs only by timestamp, which is part of the hash.
	if len(unique) != 2 {
		t.Fatalf("Expected 2 unique items, got %d", len(unique))
	}
}

func TestIdentityKey_URLPreferredOverContent(t *testing.T) {
	withURL := Item{Title: "A", URL: "https://reliefweb.int/x"}
	sameURLDifferentTitle := Item{Title: "B", URL: "https://RELIEFWEB.INT/x"}

	if IdentityKey(withURL) != IdentityKey(sameURLDifferentTitle) {
		t.Error("Items sharing a URL should share an identity key regardless of content")
	}

	noURL := Item{Title: "A"}
	if IdentityKey(withURL) == IdentityKey(noURL) {
		t.Error("URL-keyed and content-keyed items should not collide")
	}
}

func TestIdentityKey_ContentHashIsCaseInsensitive(t *testing.T) {
	a := Item{Title: "Flood Appeal", Summary: "Urgent", FeedSource: "ReliefWeb"}
	b := Item{Title: "flood appeal", Summary: "URGENT", FeedSource: "reliefweb"}

	if IdentityKey(a) != IdentityKey(b) {
		t.Error("Content hash should fold case on title, summary, and source")
	}
}
