// Package search implements the admin keyword search: a static index of every
// admin UI surface, scored by exact/substring matching, plus a per-client
// recent-selections store.
package search

import (
	"sort"
	"strings"
)

// EntryType classifies an indexed admin surface
type EntryType string

const (
	EntryTypePage    EntryType = "page"
	EntryTypeSection EntryType = "section"
	EntryTypeHeader  EntryType = "header"
	EntryTypeField   EntryType = "field"
	EntryTypeAction  EntryType = "action"
)

// typePriority breaks score ties: pages outrank sections, sections outrank
// headers, and so on down to actions.
var typePriority = map[EntryType]int{
	EntryTypePage:    5,
	EntryTypeSection: 4,
	EntryTypeHeader:  3,
	EntryTypeField:   2,
	EntryTypeAction:  1,
}

// Entry describes one admin UI surface
type Entry struct {
	ID          string    `json:"id"`
	Type        EntryType `json:"type"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	TitleBg     string    `json:"title_bg"`
	Description string    `json:"description,omitempty"`
	ParentPath  string    `json:"parent_path,omitempty"`
	Keywords    []string  `json:"keywords"`
}

// Result is a scored index entry
type Result struct {
	Entry
	Score int `json:"score"`
}

// Match scores

const (
	scoreExactTitle    = 100
	scoreTitleContains = 80
	scoreKeyword       = 60
	scoreDescription   = 40
)

// score rates an entry against a normalized (lowercased, trimmed) term.
// Zero means no match.
func (e Entry) score(term string) int {
	title := strings.ToLower(e.Title)
	titleBg := strings.ToLower(e.TitleBg)

	if term == title || term == titleBg {
		return scoreExactTitle
	}
	if strings.Contains(title, term) || strings.Contains(titleBg, term) {
		return scoreTitleContains
	}
	for _, kw := range e.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return scoreKeyword
		}
	}
	if e.Description != "" && strings.Contains(strings.ToLower(e.Description), term) {
		return scoreDescription
	}
	return 0
}

// Index is a static keyword index over admin surfaces
type Index struct {
	entries []Entry
}

// NewIndex builds an index over the given entries
func NewIndex(entries []Entry) *Index {
	return &Index{entries: entries}
}

// DefaultIndex returns the index over the built-in admin surface list
func DefaultIndex() *Index {
	return NewIndex(adminEntries)
}

// Lookup returns the entry with the given id, if present
func (idx *Index) Lookup(id string) (Entry, bool) {
	for _, e := range idx.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Search scores every entry against the term and returns matches sorted by
// score descending, then type priority descending. No fuzzy matching.
func (idx *Index) Search(term string) []Result {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var results []Result
	for _, e := range idx.entries {
		if s := e.score(term); s > 0 {
			results = append(results, Result{Entry: e, Score: s})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return typePriority[results[i].Type] > typePriority[results[j].Type]
	})

	return results
}
