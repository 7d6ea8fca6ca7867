// Package view derives filtered subsets and per-status tallies from the raw
// fridge collection. Everything here is pure: inputs are never mutated and
// recomputing with unchanged inputs yields identical output.
package view

import (
	"strings"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
)

// FilterAll is the status filter value that matches every fridge.
const FilterAll = "all"

// Counts tallies fridges per canonical status. Fridges with an unrecognized
// status count toward All but none of the named buckets, so the named sums
// may fall short of All.
type Counts struct {
	All      int                  `json:"all"`
	ByStatus map[model.Status]int `json:"by_status"`
}

// Count computes per-status tallies for the collection.
func Count(fridges []model.Fridge) Counts {
	c := Counts{
		All:      len(fridges),
		ByStatus: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, s := range model.Statuses {
		c.ByStatus[s] = 0
	}
	for _, f := range fridges {
		if s := model.ParseStatus(f.Status); s != model.StatusUnknown {
			c.ByStatus[s]++
		}
	}
	return c
}

// Filter returns the fridges passing the status filter and the search query,
// preserving the source order. The status filter matches on normalized
// status; the query is a case-insensitive substring match against name,
// address, or contact.
func Filter(fridges []model.Fridge, query, statusFilter string) []model.Fridge {
	q := strings.ToLower(strings.TrimSpace(query))
	filterAll := statusFilter == "" || statusFilter == FilterAll
	var want model.Status
	if !filterAll {
		want = model.ParseStatus(statusFilter)
	}

	var out []model.Fridge
	for _, f := range fridges {
		if !filterAll && model.ParseStatus(f.Status) != want {
			continue
		}
		if q != "" && !matchesQuery(f, q) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func matchesQuery(f model.Fridge, q string) bool {
	return strings.Contains(strings.ToLower(f.Name), q) ||
		strings.Contains(strings.ToLower(f.Address), q) ||
		strings.Contains(strings.ToLower(f.Contact), q)
}
