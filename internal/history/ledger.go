package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SchemaVersion is the version tag written with every persisted ledger
const SchemaVersion = 1

// ledgerDoc is the persisted shape of the ledger
type ledgerDoc struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// legacyEntry is the shape written by the old web front-end: a bare JSON array
// of these under the same key
type legacyEntry struct {
	AnimeSlug     string          `json:"animeSlug"`
	AnimeTitle    string          `json:"animeTitle"`
	AnimePoster   string          `json:"animePoster"`
	EpisodeSlug   string          `json:"episodeSlug"`
	EpisodeNumber json.RawMessage `json:"episodeNumber"`
	EpisodeTitle  string          `json:"episodeTitle"`
	Timestamp     int64           `json:"timestamp"`
}

var errUnknownVersion = errors.New("unknown ledger version")

// decodeLedger parses a persisted ledger. migrated is true when the blob was in
// the legacy shape and should be rewritten on the next write.
func decodeLedger(raw string) (entries []Entry, migrated bool, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, false, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var legacy []legacyEntry
		if err := json.Unmarshal([]byte(trimmed), &legacy); err != nil {
			return nil, false, fmt.Errorf("failed to parse legacy ledger: %w", err)
		}
		entries = make([]Entry, 0, len(legacy))
		for _, l := range legacy {
			entries = append(entries, Entry{
				SeriesID:          l.AnimeSlug,
				SeriesTitle:       l.AnimeTitle,
				SeriesPosterURL:   l.AnimePoster,
				LastEpisodeID:     l.EpisodeSlug,
				LastEpisodeNumber: numberText(l.EpisodeNumber),
				LastEpisodeTitle:  l.EpisodeTitle,
				UpdatedAtMillis:   l.Timestamp,
			})
		}
		return dedupe(entries), true, nil
	}

	var doc ledgerDoc
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, false, fmt.Errorf("failed to parse ledger: %w", err)
	}
	if doc.Version != SchemaVersion {
		return nil, false, fmt.Errorf("%w: %d", errUnknownVersion, doc.Version)
	}
	return dedupe(doc.Entries), false, nil
}

func encodeLedger(entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(ledgerDoc{Version: SchemaVersion, Entries: entries})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// dedupe keeps the first (most recent) entry per series and drops entries without an id
func dedupe(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if e.SeriesID == "" || seen[e.SeriesID] {
			continue
		}
		seen[e.SeriesID] = true
		out = append(out, e)
	}
	return out
}

// numberText accepts episode numbers persisted either as JSON strings or numbers
func numberText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
