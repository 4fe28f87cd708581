package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/workflow"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which pipeline stages have produced output",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		_, artifacts, err := workflow.Detect(cfg.Files)
		if err != nil {
			return err
		}
		workflow.WriteStatus(os.Stdout, cfg.Files, artifacts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
