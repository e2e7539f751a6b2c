// Package history keeps the local watch-history ledger and the per-session
// "current series" context.
//
// Watch history is a convenience: storage and decoding failures are logged and
// recovered here, never returned to callers.
package history

import (
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/justchokingaround/anenyong/internal/slug"
	"github.com/justchokingaround/anenyong/internal/storage"
)

const (
	// LedgerKey is the local storage key holding the ledger
	LedgerKey = "anime_history"
	// ContextKey is the session storage key holding the current series
	ContextKey = "anime_context"
	// DefaultMaxEntries caps the ledger unless configured otherwise
	DefaultMaxEntries = 100
)

// Episode identifies the episode being recorded
type Episode struct {
	ID     string
	Number string
	Title  string
}

// Entry is the last watched episode of one series
type Entry struct {
	SeriesID          string `json:"seriesId"`
	SeriesTitle       string `json:"seriesTitle"`
	SeriesPosterURL   string `json:"seriesPosterUrl"`
	LastEpisodeID     string `json:"lastEpisodeId"`
	LastEpisodeNumber string `json:"lastEpisodeNumber"`
	LastEpisodeTitle  string `json:"lastEpisodeTitle"`
	UpdatedAtMillis   int64  `json:"updatedAtMillis"`
}

// UpdatedAt returns the time of the last write
func (e Entry) UpdatedAt() time.Time {
	return time.UnixMilli(e.UpdatedAtMillis)
}

// SeriesContext is the series whose detail view was opened last in this session
type SeriesContext struct {
	SeriesID        string `json:"seriesId"`
	SeriesTitle     string `json:"seriesTitle"`
	SeriesPosterURL string `json:"seriesPosterUrl"`
}

// Store owns the ledger. It is the only writer of LedgerKey.
// Two processes writing at once: the last write wins, entries are not merged.
type Store struct {
	local      storage.Backend
	session    storage.Backend
	codec      slug.Codec
	maxEntries int
	now        func() time.Time
	logger     *slog.Logger

	// serializes read-modify-write cycles of this process
	mu sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithMaxEntries caps the ledger; 0 disables the cap
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxEntries = n
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for recovered failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCodec sets the slug codec used to canonicalize ids before they are stored
func WithCodec(codec slug.Codec) Option {
	return func(s *Store) { s.codec = codec }
}

// NewStore creates a Store over a local (persistent) and a session backend
func NewStore(local, session storage.Backend, opts ...Option) *Store {
	s := &Store{
		local:      local,
		session:    session,
		codec:      slug.New(""),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record moves seriesID to the head of the ledger with ep as its last episode
func (s *Store) Record(seriesID, seriesTitle, seriesPosterURL string, ep Episode) {
	seriesID = s.codec.Canonicalize(seriesID)
	if seriesID == "" {
		s.logger.Debug("history: ignoring record without series id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.load()
	if !ok {
		s.logger.Error("history: ledger not readable, episode not recorded", "series", seriesID)
		return
	}
	next := make([]Entry, 0, len(entries)+1)
	next = append(next, Entry{
		SeriesID:          seriesID,
		SeriesTitle:       seriesTitle,
		SeriesPosterURL:   seriesPosterURL,
		LastEpisodeID:     s.codec.Canonicalize(ep.ID),
		LastEpisodeNumber: ep.Number,
		LastEpisodeTitle:  ep.Title,
		UpdatedAtMillis:   s.now().UnixMilli(),
	})
	for _, e := range entries {
		if e.SeriesID != seriesID {
			next = append(next, e)
		}
	}
	if s.maxEntries > 0 && len(next) > s.maxEntries {
		s.logger.Debug("history: dropping oldest entries", "dropped", len(next)-s.maxEntries)
		next = next[:s.maxEntries]
	}

	s.save(next)
}

// Find returns the entry for seriesID
func (s *Store) Find(seriesID string) (Entry, bool) {
	seriesID = s.codec.Canonicalize(seriesID)
	for _, e := range s.All() {
		if e.SeriesID == seriesID {
			return e, true
		}
	}
	return Entry{}, false
}

// All returns the ledger, most recent first. Missing or unreadable storage yields an empty ledger.
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, _ := s.load()
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// Recent returns at most n entries from the head of the ledger
func (s *Store) Recent(n int) []Entry {
	entries := s.All()
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Remove deletes the entry for seriesID, reporting whether one existed
func (s *Store) Remove(seriesID string) bool {
	seriesID = s.codec.Canonicalize(seriesID)

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.load()
	if !ok {
		return false
	}
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.SeriesID != seriesID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false
	}

	s.save(kept)
	return true
}

// Clear empties the ledger
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.RemoveItem(LedgerKey); err != nil {
		s.logger.Error("history: failed to clear ledger", "error", err)
	}
}

// SetContext remembers the series being viewed for the rest of the session
func (s *Store) SetContext(seriesID, seriesTitle, seriesPosterURL string) {
	data, err := json.Marshal(SeriesContext{
		SeriesID:        s.codec.Canonicalize(seriesID),
		SeriesTitle:     seriesTitle,
		SeriesPosterURL: seriesPosterURL,
	})
	if err != nil {
		s.logger.Error("history: failed to encode context", "error", err)
		return
	}
	if err := s.session.SetItem(ContextKey, string(data)); err != nil {
		s.logger.Error("history: failed to set context", "error", err)
	}
}

// Context returns the series set by SetContext in this session
func (s *Store) Context() (SeriesContext, bool) {
	raw, err := s.session.GetItem(ContextKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("history: failed to read context", "error", err)
		}
		return SeriesContext{}, false
	}

	var ctx SeriesContext
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil || ctx.SeriesID == "" {
		return SeriesContext{}, false
	}
	return ctx, true
}

// RecordFromContext records ep under the session's current series.
// It reports false, recording nothing, when there is no context.
func (s *Store) RecordFromContext(ep Episode) bool {
	ctx, ok := s.Context()
	if !ok {
		s.logger.Debug("history: no series context, episode not recorded", "episode", ep.ID)
		return false
	}
	s.Record(ctx.SeriesID, ctx.SeriesTitle, ctx.SeriesPosterURL, ep)
	return true
}

var episodeNumberRegex = regexp.MustCompile(`(?i)Episode\s+(\d+)`)

// EpisodeNumberFromTitle extracts N from "... Episode N ..." or returns "?"
func EpisodeNumberFromTitle(title string) string {
	if m := episodeNumberRegex.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return "?"
}

// load reads the ledger; callers hold s.mu.
// ok is false only when storage could not be read; undecodable content resets to empty.
func (s *Store) load() (entries []Entry, ok bool) {
	raw, err := s.local.GetItem(LedgerKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, true
		}
		s.logger.Warn("history: storage unavailable", "error", err)
		return nil, false
	}

	entries, migrated, err := decodeLedger(raw)
	if err != nil {
		s.logger.Warn("history: unreadable ledger, resetting", "error", err)
		return nil, true
	}
	if migrated {
		s.logger.Info("history: migrating legacy ledger", "entries", len(entries))
	}
	return entries, true
}

// save writes the ledger; callers hold s.mu
func (s *Store) save(entries []Entry) {
	data, err := encodeLedger(entries)
	if err != nil {
		s.logger.Error("history: failed to encode ledger", "error", err)
		return
	}
	if err := s.local.SetItem(LedgerKey, data); err != nil {
		s.logger.Error("history: failed to persist ledger", "error", err)
	}
}
