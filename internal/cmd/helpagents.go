package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// helpAgentsCmd represents the help-agents command
var helpAgentsCmd = &cobra.Command{
	Use:   "help-agents",
	Short: "Output agent-optimized command reference",
	Long: `Output a concise, token-efficient command reference for AI agents.

Examples:
  monsterid help-agents                # Markdown output (default)
  monsterid help-agents --format json  # JSON output for parsing`,
	Args: cobra.NoArgs,
	Run:  runHelpAgents,
}

func init() {
	rootCmd.AddCommand(helpAgentsCmd)
}

func runHelpAgents(cmd *cobra.Command, args []string) {
	if outputFormat == "json" {
		fmt.Fprint(cmd.OutOrStdout(), generateAgentReferenceJSON())
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), generateAgentReference())
}

func generateAgentReference() string {
	return `# monsterid Command Reference for AI Agents

## Query grammar

One or more <count><code> terms, whitespace optional:
- group code (see ` + "`monsterid codes`" + `, kind g): unidentified group, e.g. ` + "`5pri`" + `
- monster code (kind m): an already identified monster, e.g. ` + "`1mtl`" + `
- ` + "`x`" + `: experience points given to EACH survivor (required)
- ` + "`c`" + `: survivors at encounter end, 1..6 (default 6)

## Commands

` + "```bash" + `
monsterid 5pri1mil1176x                 # identify (root form)
monsterid identify 1sh 8x 6c --format json
monsterid identify 2sa1000x5c --split   # divide one group among several monsters
monsterid codes                         # every group and monster code
monsterid groups                        # group members, multi-occurring groups
monsterid check                         # empty groups, orphan monsters, cycles
monsterid import --source sqlite        # JSON files -> SQL store
monsterid history --source dolt         # import commits
monsterid serve --mcp                   # MCP stdio server
` + "```" + `

## Reading results

- identified: exactly one selection of monsters matches the experience award
- ambiguous: several selections match; each is listed
- not_found: nothing matches; check counts, x and c
- Exit 1 means bad input or config; the expected grammar and all codes follow on stderr.
`
}

func generateAgentReferenceJSON() string {
	return `{
  "version": "` + Version + `",
  "purpose": "Infer the concrete monsters of a Wizardry encounter from group counts and experience per survivor.",
  "grammar": {
    "term": "<count><code>",
    "x": "experience points given to each survivor (required)",
    "c": "survivors at encounter end, 1..6 (default 6)"
  },
  "commands": {
    "identify": {
      "usage": "monsterid identify <TERM ...>",
      "flags": ["--split", "--format"]
    },
    "codes": {"usage": "monsterid codes", "flags": ["--format"]},
    "groups": {"usage": "monsterid groups", "flags": ["--format"]},
    "check": {"usage": "monsterid check", "flags": ["--format"]},
    "import": {"usage": "monsterid import --source sqlite|dolt", "flags": ["--monsters", "--groups", "--message"]},
    "history": {"usage": "monsterid history --source dolt", "flags": ["--limit", "--format"]},
    "serve": {"usage": "monsterid serve --mcp", "flags": ["--tools", "--timeout", "--status", "--stop", "--list-tools"]}
  },
  "statuses": ["identified", "ambiguous", "not_found"]
}
`
}
