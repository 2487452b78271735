package report

import (
	"bytes"
	"fmt"

	"github.com/partnerai/intel-digest/app/intel"
)

// RenderLinkReport produces the plain-text broken-link report. An empty
// broken list still yields a parseable header line.
func RenderLinkReport(reportDate string, checked int, broken []intel.LinkResult) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Link validation report - %s\n", reportDate)
	fmt.Fprintf(&buf, "Checked: %d, broken: %d\n", checked, len(broken))

	if len(broken) == 0 {
		buf.WriteString("All links OK.\n")
		return buf.String()
	}

	buf.WriteString("\n")
	for _, result := range broken {
		detail := result.Detail
		if detail == "" {
			detail = "no detail"
		}
		fmt.Fprintf(&buf, "%d\t%s\t%s\n", result.StatusCode, result.URL, detail)
	}

	return buf.String()
}
