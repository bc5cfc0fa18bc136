package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rinaldofesta/superagents-sub002/internal/profile"
)

// profilesCmd lists the embedded registry
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available specialist profiles",
	Long: `Lists every profile in the registry. Core profiles join every team;
language-matched profiles join when the scan detects one of their languages.`,
	RunE: runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) error {
	registry, err := profile.LoadRegistry()
	if err != nil {
		return err
	}

	fmt.Println(headingStyle.Render("Specialist profiles"))
	for _, p := range registry.All() {
		var tags []string
		if p.Core {
			tags = append(tags, "core")
		}
		if len(p.Languages) > 0 {
			tags = append(tags, strings.Join(p.Languages, ", "))
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " " + mutedStyle.Render("["+strings.Join(tags, "; ")+"]")
		}
		fmt.Printf("  %s\n    %s%s\n", accentStyle.Render(p.Name), p.Role, suffix)
	}
	return nil
}
