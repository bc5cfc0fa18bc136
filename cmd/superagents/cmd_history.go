package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd prints the run history the generate command records
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs",
	Long: `Shows the runs recorded in this workspace's history log, oldest
first. Every generate (and watch regeneration) appends one entry.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	records, err := auditLog().History()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(mutedStyle.Render("No runs recorded yet"))
		return nil
	}
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	fmt.Println(headingStyle.Render("Recent runs"))
	for _, rec := range records {
		status := successStyle.Render("ok")
		if rec.Placeholders > 0 {
			status = warnStyle.Render(fmt.Sprintf("%d placeholder(s)", rec.Placeholders))
		}
		fmt.Printf("  %s  tier=%-8s  %2d artifacts (%d cached, %s)  %s\n",
			rec.StartedAt.Format("2006-01-02 15:04"),
			rec.Ceiling, rec.Artifacts, rec.FromCache, status,
			mutedStyle.Render(truncate(rec.Goal, 60)))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
