package cmd

import (
	"fmt"

	"github.com/creditscope/creditscope/pkg/storage"
	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent changes between syncs (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		changes, err := a.backend.RecentChanges(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			fmt.Println("No changes recorded yet. Run 'creditscope sync' first.")
			return nil
		}
		printChanges(changes)
		return nil
	},
}

func printChanges(changes []storage.Change) {
	for _, c := range changes {
		ts := c.OccurredAt.Local().Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("%s  %-7s  %-5s  %-12s  %s", ts, c.ChangeType, c.Semester, c.ShortName, c.FullID)
		if c.Detail != "" {
			line += "  (" + c.Detail + ")"
		}
		fmt.Println(line)
	}
}

func init() {
	rootCmd.AddCommand(changesCmd)
	changesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
