// Package identify searches for the concrete monsters behind an
// observation of unidentified groups and experience points.
//
// An assignment is accepted when
//
//	floor(sum(count * xp) / party) == experience
//
// which is the same as experience*party <= total < (experience+1)*party.
package identify

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/graph"
	"github.com/bassjack1/monsterid/internal/query"
	"go.uber.org/zap"
)

// DefaultSplitBudget bounds the compositions a split search may try.
const DefaultSplitBudget = 1 << 20

var (
	// ErrUnknownKey is returned when an observation names a key found in
	// neither catalog table.
	ErrUnknownKey = errors.New("key is neither a monster nor an unidentified group")

	// ErrExperienceRange is returned when experience times party size does
	// not fit in an int.
	ErrExperienceRange = errors.New("experience points per character are too large for the party size")

	// ErrSplitBudget is returned when a split search gives up before trying
	// every composition.
	ErrSplitBudget = errors.New("too many ways to divide the group kills; lower the counts or search without --split")
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for consistency failures and tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSplitGroups lets one group's kills be divided among several of its
// members. Off by default: every kill of a group goes to a single member.
// A split search stops with ErrSplitBudget after the split budget.
func WithSplitGroups(split bool) Option {
	return func(e *Engine) {
		e.split = split
	}
}

// WithSplitBudget sets how many compositions a split search may try. A
// non-positive budget keeps DefaultSplitBudget.
func WithSplitBudget(budget int) Option {
	return func(e *Engine) {
		if budget > 0 {
			e.budget = budget
		}
	}
}

// Engine runs exact-sum searches against one catalog.
type Engine struct {
	cat     *catalog.Catalog
	members graph.Members
	logger  *zap.Logger
	split   bool
	budget  int
}

// New returns an engine. members is the group membership from graph.Build.
func New(cat *catalog.Catalog, members graph.Members, opts ...Option) *Engine {
	e := &Engine{
		cat:     cat,
		members: members,
		logger:  zap.NewNop(),
		budget:  DefaultSplitBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SplitGroups reports whether split search is enabled.
func (e *Engine) SplitGroups() bool {
	return e.split
}

// Identify returns every assignment consistent with the observation.
// Keys with a zero count take no part in the search and are left out of
// every assignment, known monsters included.
func (e *Engine) Identify(obs *query.Observation) (*Outcome, error) {
	if obs.PartySize <= 0 {
		return nil, query.ErrInvalidPartySize
	}
	if obs.Experience < 0 || obs.Experience >= math.MaxInt/obs.PartySize {
		return nil, fmt.Errorf("%w: %dx%dc", ErrExperienceRange, obs.Experience, obs.PartySize)
	}

	known := make(Assignment)
	knownXP := 0
	var groups []string

	for key, n := range obs.Counts {
		kind, ok := e.cat.KindOf(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative count %d for %q", n, key)
		}
		if n == 0 {
			continue
		}
		switch kind {
		case catalog.KindMonster:
			m, _ := e.cat.Monster(key)
			known[key] += n
			knownXP = addXP(knownXP, mulXP(n, m.XP))
		case catalog.KindGroup:
			groups = append(groups, key)
		}
	}
	sort.Strings(groups)

	s := e.newSearch(obs, groups)
	var found []Assignment
	if !s.empty {
		s.run(0, knownXP, known, &found)
	}
	if s.exceeded {
		e.logger.Warn("split search budget exhausted",
			zap.Int("budget", s.budget),
			zap.Strings("groups", groups))
		return nil, fmt.Errorf("%w (budget %d)", ErrSplitBudget, s.budget)
	}

	e.logger.Debug("search finished",
		zap.Int("groups", len(groups)),
		zap.Int("candidates", len(found)),
		zap.Bool("split", e.split))

	verified := e.verify(obs, found)
	return &Outcome{
		Observation: obs,
		Assignments: verified,
		Status:      statusOf(len(verified)),
	}, nil
}

// verify recomputes every assignment, drops the ones that fail the
// equation, and dedupes the rest in canonical order.
func (e *Engine) verify(obs *query.Observation, found []Assignment) []Assignment {
	seen := make(map[string]struct{}, len(found))
	out := make([]Assignment, 0, len(found))
	for _, a := range found {
		if xp := a.XP(e.cat); !Satisfies(xp, obs) {
			e.logger.Error("assignment failed verification",
				zap.String("assignment", a.Key()),
				zap.Int("xp", xp),
				zap.Int("experience", obs.Experience),
				zap.Int("party", obs.PartySize))
			continue
		}
		key := a.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

type search struct {
	cat     *catalog.Catalog
	split   bool
	groups  []string
	counts  []int
	members [][]string
	maxTail []int // best possible reward from groups[i:]
	lo, hi  int   // accepted totals lie in [lo, hi)
	empty   bool  // some group has no members

	budget   int
	steps    int
	exceeded bool
}

func (e *Engine) newSearch(obs *query.Observation, groups []string) *search {
	s := &search{
		cat:     e.cat,
		split:   e.split,
		groups:  groups,
		counts:  make([]int, len(groups)),
		members: make([][]string, len(groups)),
		maxTail: make([]int, len(groups)+1),
		lo:      obs.Experience * obs.PartySize,
		hi:      (obs.Experience + 1) * obs.PartySize,
		budget:  e.budget,
	}
	for i, g := range groups {
		s.counts[i] = obs.Counts[g]
		s.members[i] = e.members.Of(g)
		if len(s.members[i]) == 0 {
			s.empty = true
		}
	}
	for i := len(groups) - 1; i >= 0; i-- {
		best := 0
		for _, mk := range s.members[i] {
			if xp := s.xp(mk); xp > best {
				best = xp
			}
		}
		s.maxTail[i] = addXP(s.maxTail[i+1], mulXP(s.counts[i], best))
	}
	return s
}

func (s *search) xp(key string) int {
	m, _ := s.cat.Monster(key)
	return m.XP
}

// run assigns group i onward. acc is never written to; each branch that
// adds a monster works on its own copy.
func (s *search) run(i, total int, acc Assignment, out *[]Assignment) {
	if s.exceeded || total >= s.hi || addXP(total, s.maxTail[i]) < s.lo {
		return
	}
	if i == len(s.groups) {
		*out = append(*out, acc)
		return
	}

	if s.split {
		s.distribute(i, 0, s.counts[i], total, acc, out)
		return
	}

	n := s.counts[i]
	for _, mk := range s.members[i] {
		next := acc.clone()
		next[mk] += n
		s.run(i+1, addXP(total, mulXP(n, s.xp(mk))), next, out)
	}
}

// distribute hands out the remaining kills of group i to members[m:], in
// every composition, and moves to the next group once all are placed.
func (s *search) distribute(i, m, left, total int, acc Assignment, out *[]Assignment) {
	s.steps++
	if s.steps > s.budget {
		s.exceeded = true
		return
	}
	members := s.members[i]
	mk := members[m]
	xp := s.xp(mk)

	if m == len(members)-1 {
		next := acc
		if left > 0 {
			next = acc.clone()
			next[mk] += left
		}
		s.run(i+1, addXP(total, mulXP(left, xp)), next, out)
		return
	}

	for k := 0; k <= left && !s.exceeded; k++ {
		sum := addXP(total, mulXP(k, xp))
		if sum >= s.hi {
			break
		}
		next := acc
		if k > 0 {
			next = acc.clone()
			next[mk] += k
		}
		s.distribute(i, m+1, left-k, sum, next, out)
	}
}
