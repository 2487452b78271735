package report

import (
	"bytes"
	"fmt"

	"github.com/partnerai/intel-digest/app/intel"
)

type MarkdownGenerator struct {
	config Config
}

func NewMarkdownGenerator(config Config) *MarkdownGenerator {
	return &MarkdownGenerator{config: config}
}

// Run renders the digest as markdown, grouped first by category and then by
// sector, with per-group totals.
func (g *MarkdownGenerator) Run(reportDate string, items []intel.ScoredItem, coverage []intel.SourceCoverage) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", g.config.Title)
	fmt.Fprintf(&buf, "Date: %s\n\n", reportDate)
	fmt.Fprintf(&buf, "Total opportunities: %d\n\n", len(items))

	buf.WriteString("## By Category\n\n")
	for _, category := range []string{
		intel.CategoryFunding,
		intel.CategoryProcurement,
		intel.CategoryHumanitarian,
		intel.CategoryDevelopment,
		intel.CategoryPolicy,
	} {
		grouped := filterByCategory(items, category)
		if len(grouped) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "### %s (%d)\n\n", category, len(grouped))
		for _, item := range grouped {
			g.writeEntry(&buf, item)
		}
	}

	buf.WriteString("## By Sector\n\n")
	for _, sector := range sectorsIn(items) {
		grouped := filterBySector(items, sector)
		fmt.Fprintf(&buf, "### %s (%d)\n\n", sector, len(grouped))
		for _, item := range grouped {
			g.writeEntry(&buf, item)
		}
	}

	if len(coverage) > 0 {
		buf.WriteString("## Source Coverage\n\n")
		for _, entry := range coverage {
			fmt.Fprintf(&buf, "- %s: %d items\n", entry.Source, entry.Count)
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

func (g *MarkdownGenerator) writeEntry(buf *bytes.Buffer, item intel.ScoredItem) {
	if item.URL != "" {
		fmt.Fprintf(buf, "- **[%s](%s)**", item.Title, item.URL)
	} else {
		fmt.Fprintf(buf, "- **%s**", item.Title)
	}
	fmt.Fprintf(buf, " - %s, score %d/10", item.OpportunityType, item.Score)
	if item.FundingAmount != "" {
		fmt.Fprintf(buf, ", %s", item.FundingAmount)
	}
	fmt.Fprintf(buf, " (%s)\n", item.FeedSource)
}

func filterByCategory(items []intel.ScoredItem, category string) []intel.ScoredItem {
	var filtered []intel.ScoredItem
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func filterBySector(items []intel.ScoredItem, sector string) []intel.ScoredItem {
	var filtered []intel.ScoredItem
	for _, item := range items {
		if item.Sector == sector {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// sectorsIn returns the distinct non-empty sectors in ranked item order.
func sectorsIn(items []intel.ScoredItem) []string {
	seen := make(map[string]bool)
	var sectors []string
	for _, item := range items {
		if item.Sector == "" || seen[item.Sector] {
			continue
		}
		seen[item.Sector] = true
		sectors = append(sectors, item.Sector)
	}
	return sectors
}
