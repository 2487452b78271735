package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/partnerai/intel-digest/app/intel"
)

// Short display labels per classification category.
var categoryLabels = map[string]string{
	intel.CategoryFunding:      "Funding",
	intel.CategoryProcurement:  "Procurement",
	intel.CategoryHumanitarian: "Humanitarian",
	intel.CategoryDevelopment:  "Development Program",
	intel.CategoryPolicy:       "Policy Update",
}

type HTMLGenerator struct {
	config Config
}

func NewHTMLGenerator(config Config) *HTMLGenerator {
	return &HTMLGenerator{config: config}
}

// Run renders the ranked item list into the digest HTML document, grouped
// into priority sections.
func (g *HTMLGenerator) Run(reportDate string, items []intel.ScoredItem) string {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString(`<html lang="en">` + "\n<head>\n")
	buf.WriteString(`  <meta charset="UTF-8" />` + "\n")
	buf.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1.0" />` + "\n")
	fmt.Fprintf(&buf, "  <title>%s - %s</title>\n", html.EscapeString(g.config.Title), html.EscapeString(reportDate))
	buf.WriteString("  <style>\n")
	buf.WriteString(digestStyles)
	buf.WriteString("  </style>\n</head>\n<body>\n  <main>\n")

	buf.WriteString("    <header>\n")
	fmt.Fprintf(&buf, "      <h1>%s</h1>\n", html.EscapeString(g.config.Title))
	fmt.Fprintf(&buf, "      <p>Reporting window: %s · Generated: %s</p>\n",
		html.EscapeString(g.config.WindowLabel), html.EscapeString(reportDate))
	buf.WriteString("    </header>\n")

	sections := []struct {
		title    string
		priority string
	}{
		{"High Priority Opportunities", intel.PriorityHigh},
		{"Medium Priority Opportunities", intel.PriorityMedium},
		{"Low Priority Opportunities", intel.PriorityLow},
	}

	for _, section := range sections {
		g.writeSection(&buf, section.title, section.priority, items)
	}

	buf.WriteString("  </main>\n</body>\n</html>\n")

	return buf.String()
}

func (g *HTMLGenerator) writeSection(buf *bytes.Buffer, title, priority string, items []intel.ScoredItem) {
	buf.WriteString("    <section>\n")
	fmt.Fprintf(buf, "      <h2>%s</h2>\n", html.EscapeString(title))

	count := 0
	for _, item := range items {
		if item.Priority != priority {
			continue
		}
		g.writeEntry(buf, item)
		count++
	}

	if count == 0 {
		buf.WriteString(`      <p class="empty">No qualifying items this period.</p>` + "\n")
	}

	buf.WriteString("    </section>\n")
}

func (g *HTMLGenerator) writeEntry(buf *bytes.Buffer, item intel.ScoredItem) {
	category := categoryLabels[item.Category]
	if category == "" {
		category = item.Category
	}

	buf.WriteString(`      <article class="entry">` + "\n")
	fmt.Fprintf(buf, "        <h3>%s</h3>\n", html.EscapeString(item.Title))
	fmt.Fprintf(buf, "        <p><strong>Category:</strong> %s</p>\n", html.EscapeString(category))
	if item.Sector != "" {
		fmt.Fprintf(buf, "        <p><strong>Sector:</strong> %s</p>\n", html.EscapeString(item.Sector))
	}
	if item.FundingAmount != "" {
		fmt.Fprintf(buf, "        <p><strong>Funding amount:</strong> %s</p>\n", html.EscapeString(item.FundingAmount))
	}
	fmt.Fprintf(buf, "        <p><strong>Key signal:</strong> %s</p>\n", html.EscapeString(item.KeySignal))
	fmt.Fprintf(buf, "        <p><strong>Score:</strong> %d/10</p>\n", item.Score)

	source := html.EscapeString(item.FeedSource)
	if item.URL != "" {
		fmt.Fprintf(buf, `        <p><strong>Source:</strong> <a href="%s" target="_blank" rel="noopener noreferrer">%s</a></p>`+"\n",
			html.EscapeString(item.URL), source)
	} else {
		fmt.Fprintf(buf, "        <p><strong>Source:</strong> %s</p>\n", source)
	}

	buf.WriteString("      </article>\n")
}

const digestStyles = `    :root { color-scheme: light; }
    body { font-family: Arial, sans-serif; margin: 0; background: #f5f7fb; color: #1a1f36; }
    main { max-width: 960px; margin: 0 auto; padding: 24px; }
    header { margin-bottom: 24px; }
    h1 { margin: 0 0 8px 0; }
    section { background: #fff; border: 1px solid #e2e8f0; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
    h2 { margin-top: 0; }
    .entry { border-top: 1px solid #edf2f7; padding-top: 12px; margin-top: 12px; }
    .entry:first-of-type { border-top: none; padding-top: 0; margin-top: 0; }
    .entry h3 { margin: 0 0 8px 0; font-size: 1.05rem; }
    p { margin: 6px 0; }
    .empty { color: #6b7280; font-style: italic; }
`
