package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
	"github.com/bassjack1/monsterid/internal/identify"
)

// Delimiter separates assignments of an ambiguous result.
var Delimiter = strings.Repeat("-", 40)

// AmbiguityWarning heads an ambiguous result.
const AmbiguityWarning = "More than one selection of specific monsters yields the correct xp total. " +
	"Perhaps examine the first monster group, the rendered image, and the potential co-spawners. " +
	"All valid selections:"

// NotFoundHeader heads a result with no assignment.
const NotFoundHeader = "Could not find identification for:"

// CountLine is one "<count> <name>" line.
type CountLine struct {
	Key   string `yaml:"key" json:"key"`
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
}

// AssignmentOutput is one accepted assignment.
type AssignmentOutput struct {
	XP       int         `yaml:"xp" json:"xp"`
	Monsters []CountLine `yaml:"monsters" json:"monsters"`
}

// IdentifyOutput is the structured identification result.
type IdentifyOutput struct {
	Status      string             `yaml:"status" json:"status"`
	Input       []CountLine        `yaml:"input" json:"input"`
	Experience  int                `yaml:"experience" json:"experience"`
	PartySize   int                `yaml:"party_size" json:"party_size"`
	Split       bool               `yaml:"split,omitempty" json:"split,omitempty"`
	Assignments []AssignmentOutput `yaml:"assignments" json:"assignments"`
}

// NewIdentifyOutput converts an outcome into display form.
func NewIdentifyOutput(cat *catalog.Catalog, out *identify.Outcome) *IdentifyOutput {
	obs := out.Observation
	r := &IdentifyOutput{
		Status:      out.Status.String(),
		Input:       []CountLine{},
		Experience:  obs.Experience,
		PartySize:   obs.PartySize,
		Assignments: []AssignmentOutput{},
	}
	for _, key := range obs.Order {
		r.Input = append(r.Input, CountLine{Key: key, Name: cat.DisplayName(key), Count: obs.Counts[key]})
	}
	for _, a := range out.Assignments {
		r.Assignments = append(r.Assignments, AssignmentOutput{
			XP:       a.XP(cat),
			Monsters: countLines(cat, a),
		})
	}
	return r
}

// countLines renders an assignment sorted by display name.
func countLines(cat *catalog.Catalog, a identify.Assignment) []CountLine {
	lines := make([]CountLine, 0, len(a))
	for _, key := range a.Keys() {
		lines = append(lines, CountLine{Key: key, Name: cat.DisplayName(key), Count: a[key]})
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

// Result writes an identification result.
func Result(w io.Writer, r *IdentifyOutput) {
	switch len(r.Assignments) {
	case 0:
		fmt.Fprintln(w, NotFoundHeader)
		for _, l := range r.Input {
			fmt.Fprintf(w, "[input]  - %d %s\n", l.Count, l.Name)
		}
		fmt.Fprintf(w, "[input] (%d experience points for %d characters)\n", r.Experience, r.PartySize)
	case 1:
		writeAssignment(w, r.Assignments[0])
	default:
		fmt.Fprintln(w, AmbiguityWarning)
		for _, a := range r.Assignments {
			writeAssignment(w, a)
			fmt.Fprintln(w, Delimiter)
		}
	}
}

func writeAssignment(w io.Writer, a AssignmentOutput) {
	for _, l := range a.Monsters {
		fmt.Fprintf(w, " - %d %s\n", l.Count, l.Name)
	}
}
