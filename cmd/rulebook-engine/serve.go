package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/catalogue"
	"github.com/pdiddy/rulebook-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chunking API over HTTP",
	Long: `Serve exposes the chunker as a JSON API:

  GET  /healthz       liveness
  POST /api/chunk     chunk submitted Markdown, returns chunks and the report
  POST /api/outline   list headings and a catalogue skeleton
  POST /api/quality   score one chunk

Nothing is written to disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd, map[string]string{
			"addr":      "server.addr",
			"catalogue": "files.catalogue",
		})
		if err != nil {
			return err
		}
		anchors, err := catalogue.Load(cfg.Files.Catalogue)
		if err != nil {
			return err
		}
		return server.New(cfg, anchors, log).ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8090)")
	serveCmd.Flags().String("catalogue", "", "YAML section catalogue (default: built-in SRD 5.2)")

	rootCmd.AddCommand(serveCmd)
}
