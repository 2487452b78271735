package intel

import (
	"testing"
)

func TestClassifier_CategoryAssignment(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		category string
	}{
		{"New grant funding window now open", CategoryFunding},
		{"Invitation to bid: tender notice for logistics vendor", CategoryProcurement},
		{"Humanitarian crisis deepens, flash appeal launched", CategoryHumanitarian},
		{"Capacity building initiative enters pilot phase", CategoryDevelopment},
		{"Parliament adopted the new legislation and policy framework", CategoryPolicy},
	}

	for _, test := range tests {
		category, _, _ := classifier.Run(test.text)
		if category != test.category {
			t.Errorf("Text %q: expected %q, got %q", test.text, test.category, category)
		}
	}
}

func TestClassifier_DefaultWithoutMatches(t *testing.T) {
	classifier := NewClassifier()

	category, signal, strength := classifier.Run("quarterly staff meeting minutes")

	if category != CategoryDevelopment {
		t.Errorf("Expected default category, got %q", category)
	}
	if strength != 1 {
		t.Errorf("Expected default strength 1, got %d", strength)
	}
	if signal == "" {
		t.Error("Expected a default signal string")
	}
}

func TestClassifier_TieBreakKeepsEarlierRule(t *testing.T) {
	classifier := NewClassifier()

	// One strong Funding term and one strong Procurement term score equally;
	// Funding sits earlier in the rule table.
	category, _, _ := classifier.Run("grant tender")

	if category != CategoryFunding {
		t.Errorf("Expected earlier rule to win the tie, got %q", category)
	}
}

func TestClassifier_StrengthDerivation(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		text     string
		strength int
	}{
		// Two strong terms.
		{"grant funding available", 3},
		// One strong term.
		{"a new grant was announced", 2},
		// Two medium terms, no strong ones.
		{"open call, apply now", 2},
		// One medium term only.
		{"the solicitation closes Friday", 1},
	}

	for _, test := range tests {
		_, _, strength := classifier.Run(test.text)
		if strength != test.strength {
			t.Errorf("Text %q: expected strength %d, got %d", test.text, test.strength, strength)
		}
	}
}

func TestClassifier_TermsCountedOnce(t *testing.T) {
	classifier := NewClassifier()

	// Repeating one strong term must not reach strength 3.
	_, _, strength := classifier.Run("grant grant grant")

	if strength != 2 {
		t.Errorf("Expected repeated term counted once (strength 2), got %d", strength)
	}
}

func TestClassifier_IsIrrelevant_BlockList(t *testing.T) {
	classifier := NewClassifier()

	blocked := []string{
		"New opinion piece on aid effectiveness",
		"Podcast: voices from the field",
		"We are hiring a program officer",
		"Monthly newsletter roundup",
	}

	for _, title := range blocked {
		item := Item{Title: title}
		if !classifier.IsIrrelevant(item, CategoryFunding, 3) {
			t.Errorf("Title %q should be irrelevant", title)
		}
	}

	item := Item{Title: "Emergency appeal for flood response"}
	if classifier.IsIrrelevant(item, CategoryHumanitarian, 3) {
		t.Error("Relevant humanitarian item flagged as irrelevant")
	}
}

func TestClassifier_IsIrrelevant_BlogException(t *testing.T) {
	classifier := NewClassifier()

	blog := Item{Title: "From the blog: field notes"}

	if !classifier.IsIrrelevant(blog, CategoryDevelopment, 1) {
		t.Error("Weak development blog post should be irrelevant")
	}

	// Mentioning a call or fund rescues the item.
	blogWithCall := Item{Title: "From the blog: new call for applications"}
	if classifier.IsIrrelevant(blogWithCall, CategoryDevelopment, 1) {
		t.Error("Blog post mentioning a call should be kept")
	}

	// The rule only applies to weak Development Program classifications.
	if classifier.IsIrrelevant(blog, CategoryDevelopment, 2) {
		t.Error("Strength 2 blog post should be kept")
	}
	if classifier.IsIrrelevant(blog, CategoryFunding, 1) {
		t.Error("Non-development blog post should be kept")
	}
}

func TestOpportunityType(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{CategoryFunding, "Grant/Funding"},
		{CategoryProcurement, "Tender/Procurement"},
		{CategoryHumanitarian, "Humanitarian"},
		{CategoryPolicy, "Policy"},
		{CategoryDevelopment, "Program"},
		{"Something Else", "Program"},
	}

	for _, test := range tests {
		if got := OpportunityType(test.category); got != test.expected {
			t.Errorf("OpportunityType(%q): expected %q, got %q", test.category, test.expected, got)
		}
	}
}
