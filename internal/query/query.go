// Package query turns the compact encounter notation (for example
// "5pri1mil1176x6c") into an Observation.
package query

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
)

// DefaultPartySize is used when the input has no "c" term.
const DefaultPartySize = 6

var (
	// ErrMissingExperience is returned when the input has no "x" term.
	ErrMissingExperience = errors.New("the input must include the experience points earned, such as '2100x'")

	// ErrInvalidPartySize is returned when the "c" terms add up to zero.
	ErrInvalidPartySize = errors.New("the number of characters ('c') must be at least 1")
)

// SyntaxError reports the position where the input stopped matching the
// <count><code> grammar.
type SyntaxError struct {
	Remainder string // unparsed input at the failure point
	Expected  string // what the parser was looking for
}

func (e *SyntaxError) Error() string {
	rem := e.Remainder
	if rem == "" {
		rem = "<end of input>"
	}
	return fmt.Sprintf("could not find expected %s at this position in input '%s'", e.Expected, rem)
}

// Observation is one parsed encounter.
type Observation struct {
	Counts     map[string]int `json:"counts" yaml:"counts"`         // group or monster key -> kills
	Order      []string       `json:"order" yaml:"order"`           // keys in first-seen order
	Experience int            `json:"experience" yaml:"experience"` // xp per surviving character
	PartySize  int            `json:"party_size" yaml:"party_size"` // surviving characters
}

// Parser matches input against the keys of a catalog.
type Parser struct {
	keys             []string // longest first
	defaultPartySize int
}

// NewParser returns a parser for the catalog's keys. A non-positive
// defaultPartySize selects DefaultPartySize.
func NewParser(cat *catalog.Catalog, defaultPartySize int) *Parser {
	if defaultPartySize <= 0 {
		defaultPartySize = DefaultPartySize
	}
	keys := append(cat.GroupKeys(), cat.MonsterKeys()...)
	keys = append(keys, catalog.ExperienceKey, catalog.PartySizeKey)
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &Parser{keys: keys, defaultPartySize: defaultPartySize}
}

// JoinArgs concatenates command line arguments with all whitespace removed.
func JoinArgs(args []string) string {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(strings.Join(strings.Fields(arg), ""))
	}
	return b.String()
}

// Parse consumes the whole input as <count><code> pairs. Counts for a
// repeated code add up, and a sum that does not fit in an int is a
// SyntaxError. Partial parses are rejected.
func (p *Parser) Parse(input string) (*Observation, error) {
	obs := &Observation{Counts: make(map[string]int)}
	sawExperience, sawParty := false, false

	rest := input
	for rest != "" {
		term := rest
		digits := 0
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 0 {
			return nil, &SyntaxError{Remainder: rest, Expected: "number"}
		}
		n, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return nil, &SyntaxError{Remainder: rest, Expected: "number small enough to count"}
		}
		rest = rest[digits:]

		key := p.match(rest)
		if key == "" {
			return nil, &SyntaxError{Remainder: rest, Expected: "monster key or unidentified group key"}
		}
		rest = rest[len(key):]

		switch key {
		case catalog.ExperienceKey:
			obs.Experience, err = addCount(obs.Experience, n, term)
			sawExperience = true
		case catalog.PartySizeKey:
			obs.PartySize, err = addCount(obs.PartySize, n, term)
			sawParty = true
		default:
			if _, seen := obs.Counts[key]; !seen {
				obs.Order = append(obs.Order, key)
			}
			obs.Counts[key], err = addCount(obs.Counts[key], n, term)
		}
		if err != nil {
			return nil, err
		}
	}

	if !sawExperience {
		return nil, ErrMissingExperience
	}
	if !sawParty {
		obs.PartySize = p.defaultPartySize
	}
	if obs.PartySize <= 0 {
		return nil, ErrInvalidPartySize
	}
	return obs, nil
}

// addCount adds a term's count to the running total for its code. Both are
// non-negative, so the only failure is overflow.
func addCount(total, n int, term string) (int, error) {
	if n > math.MaxInt-total {
		return 0, &SyntaxError{Remainder: term, Expected: "total count small enough to add up"}
	}
	return total + n, nil
}

// match returns the longest key that prefixes s, or "".
func (p *Parser) match(s string) string {
	for _, k := range p.keys {
		if strings.HasPrefix(s, k) {
			return k
		}
	}
	return ""
}
