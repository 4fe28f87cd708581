package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/catalogue"
	"github.com/pdiddy/rulebook-engine/internal/pipeline"
	"github.com/pdiddy/rulebook-engine/internal/workflow"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split cleaned Markdown into retrieval-sized chunks",
	Long: `Chunk locates every catalogued section in the cleaned Markdown, splits
oversized sections at headers and paragraph breaks, and writes one Markdown
file per chunk with a metadata header. Previous chunk files in the export
directory are removed first. A health report is printed and saved as
report.json and report.yaml next to the chunks.

The input defaults to the AI-cleaned file when it exists, else the basic
cleaned file. The catalogue defaults to the built-in SRD 5.2 table of
contents.`,
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().String("input", "", "Markdown file to chunk (default: AI or basic cleanup output)")
	chunkCmd.Flags().String("export-dir", "", "directory for chunk files")
	chunkCmd.Flags().String("catalogue", "", "YAML section catalogue (default: built-in SRD 5.2)")
	chunkCmd.Flags().String("suffix", "", "suffix appended to chunk filenames")
	chunkCmd.Flags().Int("target-min", 0, "lower bound of the ideal chunk size in words")
	chunkCmd.Flags().Int("target-max", 0, "upper bound of the ideal chunk size in words")
	chunkCmd.Flags().Int("lookahead", 0, "lines searched for a break point once a chunk is full")
	chunkCmd.Flags().Int("writers", 0, "concurrent chunk file writers")

	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd, map[string]string{
		"export-dir": "files.export_dir",
		"catalogue":  "files.catalogue",
		"suffix":     "files.suffix",
		"target-min": "chunking.target_min",
		"target-max": "chunking.target_max",
		"lookahead":  "chunking.lookahead_lines",
		"writers":    "chunking.writers",
	})
	if err != nil {
		return err
	}

	anchors, err := catalogue.Load(cfg.Files.Catalogue)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		if input, err = workflow.ChunkInput(cfg.Files); err != nil {
			return err
		}
	}

	out, err := pipeline.ChunkFile(cmd.Context(), input, anchors, cfg, log, os.Stdout)
	if err != nil {
		return err
	}
	if out.Write.HasFailures() {
		return fmt.Errorf("%d chunk(s) failed to write", out.Write.Failed)
	}
	return nil
}
