package filter

import (
	"strings"
	"time"
)

// HistoryLimit caps the number of remembered queries
const HistoryLimit = 10

// HistoryEntry is one remembered free-text query
type HistoryEntry struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// History is a most-recent-first log of text queries, deduplicated by query
// (case-insensitive). It backs autocomplete suggestions only and is owned
// by a single session; it is not safe for concurrent use.
type History struct {
	entries []HistoryEntry
}

// Record moves query to the front of the log, dropping the oldest entry
// once the log holds HistoryLimit queries
func (h *History) Record(query string, at time.Time) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	entries := make([]HistoryEntry, 0, HistoryLimit)
	entries = append(entries, HistoryEntry{Query: query, Timestamp: at})
	for _, e := range h.entries {
		if strings.EqualFold(e.Query, query) {
			continue
		}
		if len(entries) == HistoryLimit {
			break
		}
		entries = append(entries, e)
	}
	h.entries = entries
}

// Entries returns a copy of the log, most recent first
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Suggest returns remembered queries starting with prefix, most recent first
func (h *History) Suggest(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0)
	for _, e := range h.entries {
		if strings.HasPrefix(strings.ToLower(e.Query), prefix) {
			out = append(out, e.Query)
		}
	}
	return out
}
