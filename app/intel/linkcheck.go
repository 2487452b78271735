package intel

import (
	"log/slog"
	"net/http"
	"strings"
)

// CheckURL probes one URL with a HEAD request, retrying once with GET when
// the server rejects HEAD outright. Network-level failures are reported as
// status 0 with the error text and are never retried.
func CheckURL(client *http.Client, url string) (int, string) {
	status, detail := doRequest(client, http.MethodHead, url)
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, detail = doRequest(client, http.MethodGet, url)
	}
	return status, detail
}

func doRequest(client *http.Client, method, url string) (int, string) {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return 0, err.Error()
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err.Error()
	}
	defer resp.Body.Close()

	return resp.StatusCode, resp.Status
}

// LinkChecker validates outbound links on scored items.
type LinkChecker struct {
	client *http.Client
}

func NewLinkChecker(client *http.Client) *LinkChecker {
	return &LinkChecker{client: client}
}

// Run checks each distinct URL once, in item order, and returns one result
// per URL. URLs are compared case-insensitively so duplicate requests are
// never issued.
func (c *LinkChecker) Run(items []ScoredItem) []LinkResult {
	seen := make(map[string]bool, len(items))
	results := make([]LinkResult, 0, len(items))

	for _, item := range items {
		if item.URL == "" {
			continue
		}
		key := strings.ToLower(item.URL)
		if seen[key] {
			continue
		}
		seen[key] = true

		status, detail := CheckURL(c.client, item.URL)
		ok := status >= 200 && status < 400
		if !ok {
			slog.Debug("Broken link", "url", item.URL, "status", status, "detail", detail)
		}

		results = append(results, LinkResult{
			URL:        item.URL,
			StatusCode: status,
			Detail:     detail,
			OK:         ok,
		})
	}

	return results
}

// Broken filters a result set down to the failures.
func Broken(results []LinkResult) []LinkResult {
	var broken []LinkResult
	for _, result := range results {
		if !result.OK {
			broken = append(broken, result)
		}
	}
	return broken
}
