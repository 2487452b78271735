package intel

import (
	"strings"
)

// classifierRule pairs a category with its weighted keyword lists. Strong
// terms count double. The table is scanned in order and the first rule with
// the strictly highest raw score wins, so ordering is part of the contract.
type classifierRule struct {
	category    string
	strongTerms []string
	mediumTerms []string
	signal      string
}

var classifierRules = []classifierRule{
	{
		category:    CategoryFunding,
		strongTerms: []string{"grant", "funding", "call for proposals", "fund", "financial support", "award"},
		mediumTerms: []string{"open call", "call for expressions of interest", "apply now", "funding window"},
		signal:      "Funding call or grant opportunity",
	},
	{
		category:    CategoryProcurement,
		strongTerms: []string{"tender", "procurement", "rfp", "request for proposal", "bid", "invitation to bid"},
		mediumTerms: []string{"tender notice", "solicitation", "vendor", "contract award"},
		signal:      "Procurement or tender notice",
	},
	{
		category:    CategoryHumanitarian,
		strongTerms: []string{"humanitarian", "emergency", "crisis", "appeal", "response plan", "relief"},
		mediumTerms: []string{"flash appeal", "urgent", "displacement", "outbreak"},
		signal:      "Humanitarian emergency or response update",
	},
	{
		category:    CategoryDevelopment,
		strongTerms: []string{"program launch", "development program", "initiative", "capacity building", "pilot"},
		mediumTerms: []string{"partnership", "implementation", "project start", "technical assistance"},
		signal:      "Development program or implementation activity",
	},
	{
		category:    CategoryPolicy,
		strongTerms: []string{"policy", "regulation", "strategy", "framework", "legislation"},
		mediumTerms: []string{"approved", "adopted", "policy shift", "guidance"},
		signal:      "Policy, regulation, or strategic update",
	},
}

// Low-value content markers. Any hit excludes the item from the digest.
var irrelevantTokens = []string{
	"opinion",
	"thought leadership",
	"podcast",
	"webinar recap",
	"newsletter",
	"career",
	"hiring",
	"product release",
	"generic update",
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run assigns a category, a human-readable key signal, and a signal
// strength (1-3) based on the combined item text. With no keyword hits at
// all the item defaults to a weak Development Program classification.
func (c *Classifier) Run(text string) (category, signal string, strength int) {
	lower := strings.ToLower(text)

	category = CategoryDevelopment
	signal = "Development program or implementation activity"
	strength = 1
	bestScore := 0

	for _, rule := range classifierRules {
		strongMatches := countMatches(lower, rule.strongTerms)
		mediumMatches := countMatches(lower, rule.mediumTerms)
		score := strongMatches*2 + mediumMatches

		// Strictly greater keeps the first rule on ties.
		if score > bestScore {
			bestScore = score
			category = rule.category
			signal = rule.signal
			switch {
			case strongMatches >= 2:
				strength = 3
			case strongMatches >= 1 || mediumMatches >= 2:
				strength = 2
			default:
				strength = 1
			}
		}
	}

	return category, signal, strength
}

// IsIrrelevant reports whether a classified item should be dropped from the
// digest entirely. The blog condition is deliberately narrow: weakly
// classified development items that read like blog posts are excluded
// unless they mention a call or fund.
func (c *Classifier) IsIrrelevant(item Item, category string, strength int) bool {
	text := strings.ToLower(item.Title + " " + item.Summary + " " + item.RawContent)

	for _, token := range irrelevantTokens {
		if strings.Contains(text, token) {
			return true
		}
	}

	if category == CategoryDevelopment && strength == 1 &&
		strings.Contains(text, "blog") &&
		!strings.Contains(text, "call") && !strings.Contains(text, "fund") {
		return true
	}

	return false
}

// OpportunityType maps a category to its opportunity type label.
func OpportunityType(category string) string {
	switch category {
	case CategoryFunding:
		return "Grant/Funding"
	case CategoryProcurement:
		return "Tender/Procurement"
	case CategoryHumanitarian:
		return "Humanitarian"
	case CategoryPolicy:
		return "Policy"
	default:
		return "Program"
	}
}

// countMatches counts how many terms are present in the text, each term at
// most once regardless of repeated occurrences.
func countMatches(text string, terms []string) int {
	matches := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			matches++
		}
	}
	return matches
}
