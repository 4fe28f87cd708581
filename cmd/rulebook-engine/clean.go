package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean extracted text into Markdown",
	Long: `Clean turns the raw text file into Markdown. By default it applies the
regex cleanup (Unicode normalisation, hyphenation repair, line joining,
ALL-CAPS headers, bolded spell labels). With --ai each page is sent to the
configured chat model instead; pages that fail fall back to the regex
cleanup. AI responses can be cached in memory or redis.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("ai", false, "clean page by page with the chat model")
	cleanCmd.Flags().String("input", "", "raw text file (default from config)")
	cleanCmd.Flags().String("output", "", "Markdown output file (default from config)")
	cleanCmd.Flags().String("model", "", "chat model for --ai")
	cleanCmd.Flags().String("cache", "", "AI response cache: none, memory or redis")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	ai, _ := cmd.Flags().GetBool("ai")
	output := "files.basic_markdown"
	if ai {
		output = "files.ai_markdown"
	}
	cfg, log, err := loadConfig(cmd, map[string]string{
		"input":  "files.raw_text",
		"output": output,
		"model":  "ai.model",
		"cache":  "cache.provider",
	})
	if err != nil {
		return err
	}

	r := &pipeline.Runner{Config: cfg, Logger: log, Out: os.Stdout}
	if !ai {
		return r.BasicCleanup()
	}
	summary, err := r.AICleanup(cmd.Context())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		log.Warn("some pages kept their basic cleanup", "failed", summary.Failed)
	}
	return nil
}
