package intel

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

type Deduper struct{}

func NewDeduper() *Deduper {
	return &Deduper{}
}

// Run keeps only the first occurrence of each identity key, preserving the
// relative order of survivors.
func (d *Deduper) Run(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	unique := make([]Item, 0, len(items))

	for _, item := range items {
		key := IdentityKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, item)
	}

	return unique
}

// IdentityKey derives the deduplication fingerprint for an item: the
// lower-cased URL when present, otherwise a content hash over the fields
// that identify the record.
func IdentityKey(item Item) string {
	if item.URL != "" {
		return strings.ToLower(item.URL)
	}

	joined := strings.Join([]string{
		strings.ToLower(item.Title),
		strings.ToLower(item.Summary),
		strings.ToLower(item.FeedSource),
		item.Timestamp,
	}, "|")

	hash := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(hash[:])
}
