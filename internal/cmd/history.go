package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bassjack1/monsterid/internal/store"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the Dolt commit history of catalog imports",
	Long: `Display the import history of a dolt catalog store.

Every 'monsterid import --source dolt' is committed; this lists those commits
from the dolt_log system table, newest first.`,
	Example: `  monsterid history --source dolt
  monsterid history --source dolt --limit 20
  monsterid history --source dolt --format json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of commits to show")
}

// HistoryEntry represents a single commit in the history output
type HistoryEntry struct {
	Commit    string `yaml:"commit" json:"commit"`
	Date      string `yaml:"date" json:"date"`
	Message   string `yaml:"message" json:"message"`
	Committer string `yaml:"committer,omitempty" json:"committer,omitempty"`
}

// HistoryOutput is the full output structure
type HistoryOutput struct {
	Commits []HistoryEntry `yaml:"commits" json:"commits"`
	Total   int            `yaml:"total" json:"total"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}
	if cfg.Catalog.Source != string(store.BackendDolt) {
		return fmt.Errorf("history needs the dolt store: pass --source dolt or set catalog.source")
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.DoltLog(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("get history: %w", err)
	}

	historyOut := HistoryOutput{
		Commits: make([]HistoryEntry, 0, len(entries)),
		Total:   len(entries),
	}
	for _, entry := range entries {
		historyOut.Commits = append(historyOut.Commits, HistoryEntry{
			Commit:    shortenHash(entry.CommitHash),
			Date:      entry.Date,
			Message:   strings.TrimSpace(entry.Message),
			Committer: entry.Committer,
		})
	}

	return writeOutput(cmd, format, historyOut, func(w io.Writer) {
		if len(historyOut.Commits) == 0 {
			fmt.Fprintln(w, "No commits found. Run 'monsterid import --source dolt' first.")
			return
		}
		for _, c := range historyOut.Commits {
			fmt.Fprintf(w, "%s  %s  %s\n", c.Commit, c.Date, c.Message)
		}
	})
}

// shortenHash returns first 7 characters of a commit hash
func shortenHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
