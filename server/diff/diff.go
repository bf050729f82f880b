package diff

import (
	"context"
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rbannon32/lawscan/server/data"
)

// HashSource loads the citation-to-section-hash mapping for one (title,
// date) snapshot from storage. The engine never re-walks source content.
type HashSource interface {
	SectionHashes(ctx context.Context, titleNum int, versionDate time.Time) (map[string]string, error)
}

// Engine classifies every citation between two snapshot dates by comparing
// stored section hashes: an O(n) hash-map join, not a text diff. A citation
// change is always ADDED plus REMOVED; renames are not detected.
type Engine struct {
	Source HashSource
	cache  *lru.Cache[string, []data.ChangeEntry]
}

// NewEngine creates a diff engine with an LRU cache over computed change
// sets. cacheSize <= 0 disables caching.
func NewEngine(source HashSource, cacheSize int) (*Engine, error) {
	e := &Engine{Source: source}

	if cacheSize > 0 {
		cache, err := lru.New[string, []data.ChangeEntry](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("error creating diff cache: %w", err)
		}
		e.cache = cache
	}

	return e, nil
}

// Classify joins two citation-to-hash maps into change entries sorted by
// citation. Every citation in the union of both maps lands in exactly one
// category.
func Classify(from, to map[string]string) []data.ChangeEntry {
	entries := make([]data.ChangeEntry, 0, len(from)+len(to))

	for citation, fromHash := range from {
		toHash, present := to[citation]
		switch {
		case !present:
			entries = append(entries, data.ChangeEntry{
				SectionCitation: citation,
				ChangeType:      data.ChangeRemoved,
				FromHash:        fromHash,
			})
		case fromHash == toHash:
			entries = append(entries, data.ChangeEntry{
				SectionCitation: citation,
				ChangeType:      data.ChangeUnchanged,
				FromHash:        fromHash,
				ToHash:          toHash,
			})
		default:
			entries = append(entries, data.ChangeEntry{
				SectionCitation: citation,
				ChangeType:      data.ChangeModified,
				FromHash:        fromHash,
				ToHash:          toHash,
			})
		}
	}

	for citation, toHash := range to {
		if _, present := from[citation]; !present {
			entries = append(entries, data.ChangeEntry{
				SectionCitation: citation,
				ChangeType:      data.ChangeAdded,
				ToHash:          toHash,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SectionCitation < entries[j].SectionCitation
	})
	return entries
}

// Changes loads both snapshots for a title and classifies every citation.
// UNCHANGED entries are filtered unless includeUnchanged is set.
func (e *Engine) Changes(
	ctx context.Context,
	titleNum int,
	fromDate time.Time,
	toDate time.Time,
	includeUnchanged bool,
) ([]data.ChangeEntry, error) {
	key := fmt.Sprintf("%d|%s|%s", titleNum,
		fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))

	var entries []data.ChangeEntry
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			entries = cached
		}
	}

	if entries == nil {
		from, err := e.Source.SectionHashes(ctx, titleNum, fromDate)
		if err != nil {
			return nil, fmt.Errorf("error loading hashes for title %d at %s: %w",
				titleNum, fromDate.Format("2006-01-02"), err)
		}
		to, err := e.Source.SectionHashes(ctx, titleNum, toDate)
		if err != nil {
			return nil, fmt.Errorf("error loading hashes for title %d at %s: %w",
				titleNum, toDate.Format("2006-01-02"), err)
		}

		entries = Classify(from, to)
		if e.cache != nil {
			e.cache.Add(key, entries)
		}
	}

	if includeUnchanged {
		return entries, nil
	}

	filtered := make([]data.ChangeEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ChangeType != data.ChangeUnchanged {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// Totals counts entries by change type.
func Totals(entries []data.ChangeEntry) map[data.ChangeType]int {
	totals := make(map[data.ChangeType]int, 4)
	for _, entry := range entries {
		totals[entry.ChangeType]++
	}
	return totals
}
