package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/catalogue"
	"github.com/pdiddy/rulebook-engine/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <markdown-file>",
	Short: "List the headings of a Markdown file",
	Long: `Outline parses a Markdown file and lists its headings with their level
and line number. With --yaml it prints a catalogue skeleton of the headings
at --level that can be edited and passed to chunk --catalogue.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().Int("level", 1, "heading level to include in the catalogue (0 for all)")
	outlineCmd.Flags().Bool("yaml", false, "print a catalogue skeleton instead of the heading list")
	outlineCmd.Flags().String("name", "", "catalogue name written with --yaml")

	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	level, _ := cmd.Flags().GetInt("level")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	headings := outline.Headings(src)

	if !asYAML {
		for _, h := range headings {
			if level > 0 && h.Level > level {
				continue
			}
			fmt.Printf("%5d  H%d  %s\n", h.Line, h.Level, h.Text)
		}
		return nil
	}

	anchors, err := catalogue.Build(outline.Skeleton(headings, level))
	if err != nil {
		return err
	}
	if len(anchors) == 0 {
		return fmt.Errorf("no level %d headings found in %s", level, args[0])
	}
	name, _ := cmd.Flags().GetString("name")
	data, err := catalogue.Marshal(name, anchors)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
