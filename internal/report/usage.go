// Package report renders the text views of monsterid: usage, code lists,
// group analysis, catalog checks and identification results. Each view
// also has a structured form for the YAML and JSON formatters.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bassjack1/monsterid/internal/catalog"
)

// HelpWords are first arguments that ask for usage instead of a query.
var HelpWords = []string{"help", "--help", "usage", "--usage", "?", "/?"}

// IsHelpWord reports whether arg is one of HelpWords.
func IsHelpWord(arg string) bool {
	for _, w := range HelpWords {
		if arg == w {
			return true
		}
	}
	return false
}

// Usage writes the help text for the program named prog.
func Usage(w io.Writer, prog string) {
	fmt.Fprintf(w, "%s  Copyright (C) 2023 github user bassajack1\n", prog)
	fmt.Fprintln(w, "This program comes with ABSOLUTELY NO WARRANTY")
	fmt.Fprintln(w, "This is free software, and you are welcome to redistribute it")
	fmt.Fprintln(w, "under certain conditions; see file LICENSE (GPL 3) for details.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "%s [TERM ...] XP_TERM\n", prog)
	fmt.Fprintln(w, "      infers actual monsters killed based on encounter details.")
	fmt.Fprintln(w, "      Each provided TERM must be of the form <count><code>")
	fmt.Fprintln(w, "      where code is a recognized monster code or unidentified")
	fmt.Fprintln(w, "      group code (see \"codes\" below) or is special code")
	fmt.Fprintln(w, "      \"c\" to indicate how many of your party characters ended")
	fmt.Fprintln(w, "      the encounter in a non-disabled state (default: 6)")
	fmt.Fprintln(w, "      XP_TERM uses special code \"x\" to indicate experience")
	fmt.Fprintln(w, "      points given \"TO EACH SURVIVOR\".")
	fmt.Fprintln(w, "      Otherwise, all counts should specify the total of each")
	fmt.Fprintln(w, "      monster type killed (excluding those dissolved or fled).")
	fmt.Fprintln(w, "      Note: whitespace between TERMs is optional")
	fmt.Fprintf(w, " %s codes\n", prog)
	fmt.Fprintln(w, "      shows unidentified group code and monster code lists")
	fmt.Fprintf(w, " %s groups\n", prog)
	fmt.Fprintln(w, "      shows detailed information about all unidentified groups")
	fmt.Fprintln(w, "      such as possible monsters in groups and ambiguities.")
	fmt.Fprintf(w, " %s check\n", prog)
	fmt.Fprintln(w, "      checks the monster catalog for empty groups and companion cycles")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run '%s --help' on any subcommand for its flags.\n", prog)
}

// ExpectedInput restates the query grammar and lists every accepted code.
// It is written after any input error.
func ExpectedInput(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, "expected input format is one or more <int><code> pairs (example: 3wh)")
	fmt.Fprintln(w, "<int> should be the number of monsters killed (not including those which flee or dissolve) or xp/characters")
	fmt.Fprintln(w, "unidentified monster group codes (see unidentified_groups.json):")
	fmt.Fprintf(w, "  %s\n", strings.Join(cat.GroupKeys(), " "))
	fmt.Fprintln(w, "identified monster codes (see monsters.json):")
	fmt.Fprintf(w, "  %s\n", strings.Join(cat.MonsterKeys(), " "))
	fmt.Fprintln(w, "special codes:")
	fmt.Fprintf(w, "  %s (for experience points awarded per character)\n", catalog.ExperienceKey)
	fmt.Fprintf(w, "  %s (for number of non-incapacitated characters at encounter end)\n", catalog.PartySizeKey)
	fmt.Fprintln(w, "running this program with no arguments will print a description of usage.")
}
