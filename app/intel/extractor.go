package intel

import (
	"encoding/json"
)

// Keys checked, in order, for a list of item records inside an envelope.
var itemListKeys = []string{"items", "rss_items", "entries", "records", "data", "opportunities"}

// Envelope keys recursed into when no item list is found directly.
var envelopeKeys = []string{"payload", "client_payload", "body", "event"}

// ExtractRecords locates the list of item records inside an arbitrary JSON
// value. Malformed or unrecognized shapes degrade to an empty list; this
// function never fails.
func ExtractRecords(payload any) []RawRecord {
	switch value := payload.(type) {
	case []any:
		return filterRecords(value)
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return nil
		}
		return ExtractRecords(parsed)
	case map[string]any:
		for _, key := range itemListKeys {
			if list, ok := value[key].([]any); ok {
				return filterRecords(list)
			}
		}

		for _, key := range envelopeKeys {
			if nested, ok := value[key]; ok {
				if records := ExtractRecords(nested); len(records) > 0 {
					return records
				}
			}
		}

		// A bare record posted without an envelope.
		if _, hasTitle := value["title"]; hasTitle {
			if _, hasURL := value["url"]; hasURL {
				return []RawRecord{RawRecord(value)}
			}
		}
	}

	return nil
}

func filterRecords(entries []any) []RawRecord {
	records := make([]RawRecord, 0, len(entries))
	for _, entry := range entries {
		if record, ok := entry.(map[string]any); ok {
			records = append(records, RawRecord(record))
		}
	}
	return records
}
