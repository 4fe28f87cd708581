package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract page text from the rulebook PDF",
	Long: `Extract reads the input PDF and writes its text, one "<!-- Page N -->"
marker per page, to the raw text file. The native backend parses the PDF
directly; the markitdown backend runs a container. An existing raw text file
is kept unless --force is given.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("input", "", "rulebook PDF (default from config)")
	extractCmd.Flags().String("output", "", "raw text output file (default from config)")
	extractCmd.Flags().String("backend", "", "conversion backend: pdf or markitdown")
	extractCmd.Flags().String("runtime", "", "container runtime for markitdown: auto, docker or podman")
	extractCmd.Flags().Bool("force", false, "re-extract even when the output exists")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd, map[string]string{
		"input":   "files.input_pdf",
		"output":  "files.raw_text",
		"backend": "backend",
		"runtime": "container.runtime",
	})
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	r := &pipeline.Runner{Config: cfg, Force: force, Logger: log, Out: os.Stdout}
	return r.Extract(cmd.Context())
}
