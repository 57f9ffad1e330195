package identify

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/query"
)

// Status classifies an identification outcome.
type Status int

const (
	StatusNotFound Status = iota
	StatusIdentified
	StatusAmbiguous
)

// String renders the status for structured output.
func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not_found"
	case StatusIdentified:
		return "identified"
	case StatusAmbiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText lets the JSON and YAML encoders emit the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Assignment maps monster keys to the number killed. Zero counts are never
// stored.
type Assignment map[string]int

// XP returns the total experience the assignment is worth, saturating at
// math.MaxInt.
func (a Assignment) XP(cat *catalog.Catalog) int {
	total := 0
	for key, n := range a {
		if m, ok := cat.Monster(key); ok {
			total = addXP(total, mulXP(n, m.XP))
		}
	}
	return total
}

// Keys returns the monster keys in sorted order.
func (a Assignment) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Key is the canonical form "key=count,..." used for dedupe and ordering.
func (a Assignment) Key() string {
	parts := make([]string, 0, len(a))
	for _, k := range a.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%d", k, a[k]))
	}
	return strings.Join(parts, ",")
}

func (a Assignment) clone() Assignment {
	out := make(Assignment, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// addXP and mulXP work on non-negative counts and rewards and saturate at
// math.MaxInt instead of wrapping. Identify only searches when
// (experience+1)*party fits in an int, so a saturated total never satisfies.
func addXP(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func mulXP(n, xp int) int {
	if n > 0 && xp > math.MaxInt/n {
		return math.MaxInt
	}
	return n * xp
}

// Satisfies reports whether the assignment's xp, split evenly over the party
// and rounded down, equals the observed per-character experience.
func Satisfies(totalXP int, obs *query.Observation) bool {
	if obs.PartySize <= 0 {
		return false
	}
	return totalXP/obs.PartySize == obs.Experience
}

// Outcome is the result of one identification.
type Outcome struct {
	Observation *query.Observation `json:"observation" yaml:"observation"`
	Assignments []Assignment       `json:"assignments" yaml:"assignments"`
	Status      Status             `json:"status" yaml:"status"`
}

func statusOf(n int) Status {
	switch {
	case n == 0:
		return StatusNotFound
	case n == 1:
		return StatusIdentified
	default:
		return StatusAmbiguous
	}
}
