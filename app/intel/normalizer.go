package intel

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Ordered synonym tables for record fields. The first key holding a
// non-empty value wins.
var (
	timestampKeys  = []string{"timestamp", "pubDate", "published", "published_at", "published_date", "isoDate", "date", "created_at", "updated_at"}
	sourceKeys     = []string{"feed_source", "source", "source_name"}
	titleKeys      = []string{"title"}
	summaryKeys    = []string{"summary", "description"}
	rawContentKeys = []string{"raw_content", "content"}
	authorKeys     = []string{"author", "creator"}
	urlKeys        = []string{"opportunity_url", "canonical_url", "external_url", "source_url", "article_url", "url", "link"}
	amountKeys     = []string{"amount", "grant_amount", "funding_amount", "value"}
	sectorKeys     = []string{"sector", "focus_sector"}
	categoryKeys   = []string{"categories", "tags"}
)

var whitespacePattern = regexp.MustCompile(`\s+`)

var urlScanPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// Monetary values require either a currency marker or a magnitude word so
// that bare numbers (years, counts) never match.
var amountPattern = regexp.MustCompile(`(?i)(?:\$|usd|eur|gbp)\s*\d[\d,]*(?:\.\d+)?(?:\s*(?:million|billion|bn|m)\b)?|\d[\d,]*(?:\.\d+)?\s*(?:million|billion|bn|m)\b`)

// Hosts that signal a non-real URL. Checked against the lower-cased
// hostname with any "www." prefix removed.
var placeholderHosts = map[string]bool{
	"example.com": true,
	"example.org": true,
	"example.net": true,
	"localhost":   true,
	"127.0.0.1":   true,
}

// Canonical landing pages used when a record carries no usable URL of its
// own. Matched by substring against the lower-cased source name.
const (
	ReliefWebFallbackURL         = "https://reliefweb.int/updates"
	UNNewsHumanitarianFallback   = "https://news.un.org/en/news/topic/humanitarian-aid"
	UNNewsDevelopmentFallback    = "https://news.un.org/en/news/topic/economic-development"
	DevexFallbackURL             = "https://www.devex.com/news"
	WorldBankFallbackURL         = "https://www.worldbank.org/en/news"
	UNDPFallbackURL              = "https://www.undp.org/news-centre"
	FAOFallbackURL               = "https://www.fao.org/newsroom/en"
	DonorTrackerFallbackURL      = "https://donortracker.org/publications"
	DevelopmentAidFallbackURL    = "https://www.developmentaid.org/news-stream"
	GlobalFundFallbackURL        = "https://www.theglobalfund.org/en/news/"
	HumanitarianTodayFallbackURL = "https://reliefweb.int/updates?view=headlines"
)

var sourceFallbacks = []struct {
	match string
	url   string
}{
	{"reliefweb", ReliefWebFallbackURL},
	{"devex", DevexFallbackURL},
	{"world bank", WorldBankFallbackURL},
	{"undp", UNDPFallbackURL},
	{"fao", FAOFallbackURL},
	{"donor tracker", DonorTrackerFallbackURL},
	{"developmentaid", DevelopmentAidFallbackURL},
	{"global fund", GlobalFundFallbackURL},
	{"humanitarian today", HumanitarianTodayFallbackURL},
}

// Sector inference rules, in priority order. The first label with any
// keyword present in the combined text wins.
var sectorRules = []struct {
	label    string
	keywords []string
}{
	{"Agriculture", []string{"agriculture", "agribusiness", "farming", "farmer", "livestock", "fisheries", "aquaculture", "crop", "food security"}},
	{"Climate & Environment", []string{"climate", "environment", "biodiversity", "conservation", "emissions", "deforestation", "resilience"}},
	{"Water, Sanitation & Hygiene", []string{"wash", "water", "sanitation", "hygiene"}},
	{"Health", []string{"health", "disease", "vaccine", "nutrition", "epidemic", "maternal"}},
	{"Education", []string{"education", "school", "literacy", "teacher", "learning"}},
	{"Energy", []string{"energy", "electricity", "solar", "renewable", "off-grid"}},
	{"Digital & ICT", []string{"digital", "ict", "connectivity", "internet", "broadband", "data systems"}},
}

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run coerces one raw record into the canonical item shape. Every field has
// a documented default, so normalization is total and never fails.
func (n *Normalizer) Run(record RawRecord) Item {
	item := Item{
		Timestamp:  firstValue(record, timestampKeys),
		FeedSource: firstValueOr(record, sourceKeys, "Unknown Source"),
		Title:      firstValueOr(record, titleKeys, "Untitled item"),
		Summary:    firstValue(record, summaryKeys),
		RawContent: firstValue(record, rawContentKeys),
		Author:     firstValue(record, authorKeys),
		Categories: extractCategories(record),
	}

	item.URL = n.bestURL(record, item)
	item.FundingAmount = n.extractAmount(record, item)
	item.Sector = n.extractSector(record, item)

	return item
}

// bestURL gathers URL candidates from explicit fields and from a scan of the
// item text, keeps the first valid non-placeholder one, and falls back to a
// known landing page for the feed source when nothing usable remains.
func (n *Normalizer) bestURL(record RawRecord, item Item) string {
	var candidates []string
	for _, key := range urlKeys {
		if value := NormalizeText(Stringify(record[key])); value != "" {
			candidates = append(candidates, value)
		}
	}
	// Sentence punctuation sticks to scanned URLs.
	for _, scanned := range urlScanPattern.FindAllString(item.Summary+" "+item.RawContent, -1) {
		candidates = append(candidates, strings.TrimRight(scanned, ".,;:)]"))
	}

	for _, candidate := range candidates {
		if IsValidURL(candidate) && !isPlaceholderURL(candidate) {
			return candidate
		}
	}

	return sourceFallbackURL(item.FeedSource)
}

func sourceFallbackURL(source string) string {
	name := strings.ToLower(source)

	// UN News publishes per-topic feeds, so the desk name decides the
	// landing page.
	if strings.Contains(name, "un news") {
		if strings.Contains(name, "humanitarian") {
			return UNNewsHumanitarianFallback
		}
		if strings.Contains(name, "economic") || strings.Contains(name, "development") {
			return UNNewsDevelopmentFallback
		}
	}

	for _, fallback := range sourceFallbacks {
		if strings.Contains(name, fallback.match) {
			return fallback.url
		}
	}

	return ""
}

// IsValidURL reports whether raw is a syntactically valid absolute
// HTTP(S) URL.
func IsValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func isPlaceholderURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return placeholderHosts[host]
}

func (n *Normalizer) extractAmount(record RawRecord, item Item) string {
	if value := firstValue(record, amountKeys); value != "" {
		return value
	}

	combined := item.Title + " " + item.Summary + " " + item.RawContent
	if match := amountPattern.FindString(combined); match != "" {
		return NormalizeText(match)
	}

	return ""
}

func (n *Normalizer) extractSector(record RawRecord, item Item) string {
	if value := firstValue(record, sectorKeys); value != "" {
		return value
	}

	combined := strings.ToLower(item.Title + " " + item.Summary + " " + item.RawContent + " " + strings.Join(item.Categories, " "))
	for _, rule := range sectorRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(combined, keyword) {
				return rule.label
			}
		}
	}

	return ""
}

func extractCategories(record RawRecord) []string {
	for _, key := range categoryKeys {
		switch value := record[key].(type) {
		case []any:
			categories := make([]string, 0, len(value))
			for _, entry := range value {
				if text := NormalizeText(Stringify(entry)); text != "" {
					categories = append(categories, text)
				}
			}
			if len(categories) > 0 {
				return categories
			}
		case string:
			var categories []string
			for _, segment := range strings.Split(value, ",") {
				if text := NormalizeText(segment); text != "" {
					categories = append(categories, text)
				}
			}
			if len(categories) > 0 {
				return categories
			}
		}
	}

	return nil
}

// Stringify converts any decoded JSON value to text. The conversion is
// total: unexpected shapes degrade to a best-effort representation rather
// than failing.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeText collapses runs of whitespace into single spaces and trims
// the result.
func NormalizeText(value string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " "))
}

func firstValue(record RawRecord, keys []string) string {
	for _, key := range keys {
		if value := NormalizeText(Stringify(record[key])); value != "" {
			return value
		}
	}
	return ""
}

func firstValueOr(record RawRecord, keys []string, fallback string) string {
	if value := firstValue(record, keys); value != "" {
		return value
	}
	return fallback
}
