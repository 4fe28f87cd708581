package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/quality"
)

const qualityReportFile = "quality_report.json"

var validateCmd = &cobra.Command{
	Use:   "validate [chunks-dir]",
	Short: "Score exported chunks for extraction and formatting quality",
	Long: `Validate reads every chunk file in the export directory (or chunks-dir)
and scores it for OCR noise, Markdown formatting, truncation, preserved
rules vocabulary, suspect words and dangling cross-references. The summary
and recommendations are printed and the full report is saved as
quality_report.json in the same directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("json", false, "print the full report as JSON")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	dir := cfg.Files.ExportDir
	if len(args) == 1 {
		dir = args[0]
	}

	report, err := quality.ValidateDir(dir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling quality report: %w", err)
	}
	path := filepath.Join(dir, qualityReportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn("saving quality report failed", "path", path, "error", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		_, err = fmt.Println(string(data))
		return err
	}
	return report.WriteText(os.Stdout)
}
