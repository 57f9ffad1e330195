package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bassjack1/monsterid/internal/analysis"
)

// Groups writes the group breakdown.
func Groups(w io.Writer, r *analysis.GroupReport) {
	fmt.Fprintln(w, "groups with only one monster:")
	for _, g := range r.Single {
		writeGroupMembers(w, g)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "groups with more than one monster:")
	for _, g := range r.Multiple {
		writeGroupMembers(w, g)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "groups which can multi-occur (group members capitalized):")
	for _, g := range r.MultiOccurring {
		fmt.Fprintf(w, "%4s:\n", g.Key)
		for _, span := range g.Spans {
			fmt.Fprintf(w, "\t%s\n", span)
		}
	}
}

func writeGroupMembers(w io.Writer, g analysis.GroupMembers) {
	fmt.Fprintf(w, "%4s : %s\n", g.Key, strings.Join(g.Members, ", "))
}
