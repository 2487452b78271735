package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/partnerai/intel-digest/app/intel"
)

// Fetcher pulls one RSS/Atom source and converts its entries into raw
// records for the intelligence pipeline.
type Fetcher struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	extractor  *ContentExtractor
	userAgent  string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		extractor:  NewContentExtractor(),
		userAgent:  userAgent,
	}
}

// Run fetches and parses one source. Entries come back as RawRecord maps
// whose keys line up with the normalizer's synonym tables.
func (f *Fetcher) Run(ctx context.Context, source *Source) ([]intel.RawRecord, error) {
	data, err := f.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source %s: %w", source.Name, err)
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse source %s: %w", source.Name, err)
	}

	limit := len(parsed.Items)
	if source.Settings.MaxItems > 0 && limit > source.Settings.MaxItems {
		limit = source.Settings.MaxItems
	}

	records := make([]intel.RawRecord, 0, limit)
	for _, entry := range parsed.Items[:limit] {
		records = append(records, f.toRecord(ctx, source, entry))
	}

	slog.Info("Fetched source", "source", source.Name, "items", len(records))
	return records, nil
}

func (f *Fetcher) fetch(ctx context.Context, source *Source) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(source.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (f *Fetcher) toRecord(ctx context.Context, source *Source, entry *gofeed.Item) intel.RawRecord {
	record := intel.RawRecord{
		"feed_source": source.Name,
		"title":       entry.Title,
		"link":        entry.Link,
		"description": entry.Description,
		"content":     entry.Content,
		"pubDate":     entry.Published,
	}

	if entry.Published == "" {
		record["pubDate"] = entry.Updated
	}

	if entry.Author != nil {
		record["author"] = entry.Author.Name
	}

	if len(entry.Categories) > 0 {
		categories := make([]any, len(entry.Categories))
		for i, category := range entry.Categories {
			categories[i] = category
		}
		record["categories"] = categories
	}

	if source.Settings.ExtractContent && entry.Content == "" && entry.Link != "" {
		if content, err := f.extractLinkedContent(ctx, source, entry.Link); err != nil {
			slog.Debug("Content extraction failed", "source", source.Name, "link", entry.Link, "error", err)
		} else {
			record["content"] = content
		}
	}

	return record
}

func (f *Fetcher) extractLinkedContent(ctx context.Context, source *Source, link string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(source.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return f.extractor.Run(data, link)
}
