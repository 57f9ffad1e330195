// Package analysis reports which unidentified groups can stand for more
// than one monster in the same encounter.
package analysis

import (
	"sort"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/graph"
)

// GroupMembers lists the monsters of one group by display name.
type GroupMembers struct {
	Key     string   `json:"key" yaml:"key"`
	Members []string `json:"members" yaml:"members"`
}

// MultiGroup is a group that can occur more than once in a co-occurrence
// chain, with the chain segments where it does.
type MultiGroup struct {
	Key   string   `json:"key" yaml:"key"`
	Spans []string `json:"spans" yaml:"spans"`
}

// GroupReport is the full group breakdown.
type GroupReport struct {
	Single         []GroupMembers `json:"single" yaml:"single"`
	Multiple       []GroupMembers `json:"multiple" yaml:"multiple"`
	MultiOccurring []MultiGroup   `json:"multi_occurring" yaml:"multi_occurring"`
}

// Groups builds the group breakdown: groups with exactly one monster,
// groups with several, and groups that can multi-occur.
// Groups without monsters appear in neither of the first two lists.
func Groups(cat *catalog.Catalog, members graph.Members, g *graph.Graph) *GroupReport {
	r := &GroupReport{
		Single:   []GroupMembers{},
		Multiple: []GroupMembers{},
	}
	for _, key := range cat.GroupKeys() {
		keys := members.Of(key)
		names := make([]string, 0, len(keys))
		for _, mk := range keys {
			names = append(names, cat.DisplayName(mk))
		}
		switch {
		case len(keys) == 1:
			r.Single = append(r.Single, GroupMembers{Key: key, Members: names})
		case len(keys) > 1:
			r.Multiple = append(r.Multiple, GroupMembers{Key: key, Members: names})
		}
	}
	r.MultiOccurring = MultiOccurring(cat, g.AllChains())
	return r
}

// MultiOccurring finds, for each chain, the groups counted more than once
// among its distinct monsters. For such a group the chain is cut to the
// span from the group's first to its last position; members of the group
// are upper-cased. Spans are deduplicated and sorted per group.
func MultiOccurring(cat *catalog.Catalog, chains []graph.Chain) []MultiGroup {
	spans := make(map[string]map[string]struct{})

	for _, chain := range chains {
		groupOf := make([]string, len(chain))
		counts := make(map[string]int)
		seen := make(map[string]struct{})
		for i, key := range chain {
			m, ok := cat.Monster(key)
			if !ok {
				continue
			}
			groupOf[i] = m.GroupKey
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[m.GroupKey]++
		}

		for group, n := range counts {
			if n < 2 {
				continue
			}
			if spans[group] == nil {
				spans[group] = make(map[string]struct{})
			}
			spans[group][renderSpan(cat, chain, groupOf, group)] = struct{}{}
		}
	}

	out := make([]MultiGroup, 0, len(spans))
	for group, set := range spans {
		mg := MultiGroup{Key: group}
		for s := range set {
			mg.Spans = append(mg.Spans, s)
		}
		sort.Strings(mg.Spans)
		out = append(out, mg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func renderSpan(cat *catalog.Catalog, chain graph.Chain, groupOf []string, group string) string {
	first, last := -1, -1
	for i, g := range groupOf {
		if g != group {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}

	names := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		name := cat.DisplayName(chain[i])
		if groupOf[i] == group {
			name = strings.ToUpper(name)
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
