// Package selector maps a calendar date to entries of a content pool.
//
// Two modes exist and must stay separate, since selections already persisted
// for past dates were produced by one or the other:
//
//   - Shuffle: seeded Fisher-Yates over the flattened pool, first n entries
//     (daily challenges).
//   - Pick: seed modulo pool length (daily tips).
//
// Both are pure functions of (date, pool). No clock is read here.
package selector

import (
	"math"
	"time"

	"github.com/ecopilot/ecopilot-backend/internal/content"
)

// Seed derives the integer seed year*10000 + month*100 + day from the UTC
// calendar fields of date.
func Seed(date time.Time) int {
	y, m, d := date.UTC().Date()
	return y*10000 + int(m)*100 + d
}

// PseudoRandom maps x to [0,1) as frac(sin(x) * 10000).
//
// Weak and non-uniform, kept bit-compatible with the selections already
// shown to users.
func PseudoRandom(x int) float64 {
	v := math.Sin(float64(x)) * 10000
	return v - math.Floor(v)
}

// Shuffle returns min(count, len(pool)) distinct entries for date. The input
// slice is not modified.
func Shuffle(date time.Time, pool []content.ContentEntry, count int) []content.ContentEntry {
	if count <= 0 || len(pool) == 0 {
		return []content.ContentEntry{}
	}

	shuffled := make([]content.ContentEntry, len(pool))
	copy(shuffled, pool)

	seed := Seed(date)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(math.Floor(PseudoRandom(seed+i) * float64(i+1)))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// Pick returns the single entry at Seed(date) mod len(pool). ok is false for
// an empty pool.
func Pick(date time.Time, pool []content.ContentEntry) (entry content.ContentEntry, ok bool) {
	if len(pool) == 0 {
		return content.ContentEntry{}, false
	}
	return pool[Seed(date)%len(pool)], true
}
