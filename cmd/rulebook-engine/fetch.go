package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download the rulebook PDF",
	Long: `Fetch downloads the rulebook PDF from url (or source.url in the config) to
the input PDF path. Rate-limited and unavailable responses are retried with
backoff. An existing PDF is kept unless --force is given. Extract runs this
step automatically when the PDF is missing and a source URL is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd, map[string]string{"output": "files.input_pdf"})
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Source.URL = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")

		r := &pipeline.Runner{Config: cfg, Force: force, Logger: log, Out: os.Stdout}
		return r.Fetch(cmd.Context())
	},
}

func init() {
	fetchCmd.Flags().String("output", "", "destination PDF path (default from config)")
	fetchCmd.Flags().Bool("force", false, "download even when the PDF exists")

	rootCmd.AddCommand(fetchCmd)
}
