package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/graph"
)

// OrphanMonster is a monster whose group key is not in the groups table.
type OrphanMonster struct {
	Key      string `yaml:"key" json:"key"`
	GroupKey string `yaml:"group_key" json:"group_key"`
}

// CheckOutput summarizes catalog health.
type CheckOutput struct {
	Groups               int             `yaml:"groups" json:"groups"`
	Monsters             int             `yaml:"monsters" json:"monsters"`
	Companions           int             `yaml:"companions" json:"companions"`
	Chains               int             `yaml:"chains" json:"chains"`
	EmptyGroups          []string        `yaml:"empty_groups" json:"empty_groups"`
	UnknownGroupMonsters []OrphanMonster `yaml:"unknown_group_monsters" json:"unknown_group_monsters"`
	Cycle                []string        `yaml:"cycle,omitempty" json:"cycle,omitempty"`
}

// NewCheckOutput inspects the catalog and its companion graph.
func NewCheckOutput(cat *catalog.Catalog, members graph.Members, g *graph.Graph) *CheckOutput {
	r := &CheckOutput{
		Groups:               len(cat.GroupKeys()),
		Monsters:             len(cat.MonsterKeys()),
		Companions:           g.EdgeCount(),
		Chains:               len(g.AllChains()),
		EmptyGroups:          []string{},
		UnknownGroupMonsters: []OrphanMonster{},
	}
	for _, key := range cat.GroupKeys() {
		if len(members.Of(key)) == 0 {
			r.EmptyGroups = append(r.EmptyGroups, key)
		}
	}
	for _, m := range cat.Monsters() {
		if _, ok := cat.Group(m.GroupKey); !ok {
			r.UnknownGroupMonsters = append(r.UnknownGroupMonsters, OrphanMonster{Key: m.Key, GroupKey: m.GroupKey})
		}
	}
	if has, cycle := g.FindCycles(); has {
		r.Cycle = cycle
	}
	return r
}

// Check writes the catalog health summary.
func Check(w io.Writer, r *CheckOutput) {
	fmt.Fprintf(w, "groups:     %d\n", r.Groups)
	fmt.Fprintf(w, "monsters:   %d\n", r.Monsters)
	fmt.Fprintf(w, "companions: %d\n", r.Companions)
	fmt.Fprintf(w, "chains:     %d\n", r.Chains)

	if len(r.EmptyGroups) > 0 {
		fmt.Fprintf(w, "groups with no monsters: %s\n", strings.Join(r.EmptyGroups, " "))
	}
	for _, o := range r.UnknownGroupMonsters {
		fmt.Fprintf(w, "monster %s names group %s which is not in the groups table\n", o.Key, o.GroupKey)
	}
	if len(r.Cycle) > 0 {
		fmt.Fprintf(w, "companion cycle (chains are capped at %d monsters): %s\n",
			graph.MaxChainLength, strings.Join(r.Cycle, " -> "))
	}
}
