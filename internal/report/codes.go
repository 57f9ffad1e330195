package report

import (
	"fmt"
	"io"

	"github.com/bassjack1/monsterid/internal/catalog"
)

// CodeEntry is one line of the code listing.
type CodeEntry struct {
	Key      string       `yaml:"key" json:"key"`
	Kind     catalog.Kind `yaml:"kind" json:"kind"`
	GameName string       `yaml:"game_name" json:"game_name"`
	Name     string       `yaml:"name,omitempty" json:"name,omitempty"`
}

// CodesOutput is the structured code listing.
type CodesOutput struct {
	Groups   []CodeEntry `yaml:"groups" json:"groups"`
	Monsters []CodeEntry `yaml:"monsters" json:"monsters"`
}

// NewCodesOutput lists every group and monster in key order.
func NewCodesOutput(cat *catalog.Catalog) *CodesOutput {
	out := &CodesOutput{
		Groups:   []CodeEntry{},
		Monsters: []CodeEntry{},
	}
	for _, g := range cat.Groups() {
		out.Groups = append(out.Groups, CodeEntry{
			Key:      g.Key,
			Kind:     catalog.KindGroup,
			GameName: g.GameGroup,
		})
	}
	for _, m := range cat.Monsters() {
		out.Monsters = append(out.Monsters, CodeEntry{
			Key:      m.Key,
			Kind:     catalog.KindMonster,
			GameName: m.GameName,
			Name:     m.Name,
		})
	}
	return out
}

// Codes writes the code listing with its explanatory header.
func Codes(w io.Writer, codes *CodesOutput) {
	fmt.Fprintln(w, "Note that there are several cases where the same in-game monster name string is used for multiple distinct monster types.")
	fmt.Fprintln(w, "In these cases, it may be advisable to use a code corresponding to the unidentified group rather than the exact monster.")
	fmt.Fprintln(w, "The first column contains the code to be used as input to this program.")
	fmt.Fprintln(w, "The second column contains \"g\" for an unidentified group entity or \"m\" for a monster entity.")
	fmt.Fprintln(w, "The third column contains the in-game text used for the entity (caps) followed by this program's output text for monsters (lower).")
	fmt.Fprintln(w, "This program always uses the singular form for entity names (e.g. \"MAN IN BLACK\" rather than \"MEN IN BLACK\")")
	fmt.Fprintln(w, "In-game text \"MAN IN ROBE\" and \"MAN IN KIMONO\" changed to \"MAN IN ROBES\" and \"KIMONOED MAN\" respectively in this program.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Codes for unidentified group entities and monster entities:")
	for _, e := range codes.Groups {
		fmt.Fprintf(w, "  %6s %s %s\n", e.Key, e.Kind, e.GameName)
	}
	for _, e := range codes.Monsters {
		fmt.Fprintf(w, "  %6s %s %s %s\n", e.Key, e.Kind, e.GameName, e.Name)
	}
}
