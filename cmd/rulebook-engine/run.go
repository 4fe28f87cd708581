package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rulebook-engine/internal/catalogue"
	"github.com/pdiddy/rulebook-engine/internal/pipeline"
	"github.com/pdiddy/rulebook-engine/internal/workflow"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline from the stage the workspace is at",
	Long: `Run detects which stage outputs already exist and continues from there.

Choices:
  (none)   continue from the detected stage; a complete workspace is left alone
  fresh    start over from PDF extraction
  resume   continue from the detected stage
  chunks   re-chunk the existing cleaned Markdown only
  exit     do nothing

AI cleanup runs only when ai.enabled is set.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("choice", "", "fresh, resume, chunks or exit")
	runCmd.Flags().Bool("ai", false, "enable AI cleanup for this run")
	runCmd.Flags().Bool("force", false, "re-extract even when the raw text exists")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd, map[string]string{"ai": "ai.enabled"})
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetString("choice")
	choice, err := workflow.ParseChoice(raw)
	if err != nil {
		return err
	}

	state, _, err := workflow.Detect(cfg.Files)
	if err != nil {
		return err
	}
	action, err := workflow.Decide(state, choice)
	if err != nil {
		return err
	}
	log.Info("workflow decided", "state", state, "choice", choice, "action", action)
	if action == workflow.ActionExit {
		fmt.Printf("Nothing to do (state: %s). Use --choice=chunks or --choice=fresh to rerun.\n", state)
		return nil
	}

	anchors, err := catalogue.Load(cfg.Files.Catalogue)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")
	r := &pipeline.Runner{
		Config:  cfg,
		Anchors: anchors,
		Force:   force || choice == workflow.ChoiceFresh,
		Logger:  log,
		Out:     os.Stdout,
	}
	return r.Run(cmd.Context(), action)
}
