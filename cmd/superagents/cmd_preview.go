package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// previewCmd renders a generated artifact with terminal styling
var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render a generated artifact in the terminal",
	Long: `Renders a generated Markdown artifact with terminal styling.

Example:
  superagents preview .superagents/agents/architect.md`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}

	out, err := renderer.Render(string(data))
	if err != nil {
		return fmt.Errorf("failed to render artifact: %w", err)
	}
	fmt.Print(out)
	return nil
}
