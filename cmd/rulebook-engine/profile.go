package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rulebook-engine/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "List, save and show named configuration profiles",
	Long: `Profiles are complete configurations stored as YAML in the profiles
directory. Select one with --profile; the config file, environment and flags
still override it. The fast and quality profiles are built in.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("profiles-dir")
		names, err := config.ListProfiles(dir)
		if err != nil {
			return err
		}
		builtin := config.BuiltinProfiles()
		for _, name := range names {
			if _, ok := builtin[name]; ok {
				fmt.Printf("%s (built-in)\n", name)
				continue
			}
			fmt.Println(name)
		}
		return nil
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current configuration as a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("profiles-dir")
		path, err := config.SaveProfile(dir, args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Printf("saved:   %s -> %s\n", args[0], path)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a profile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("profiles-dir")
		cfg, err := config.LoadProfile(dir, args[0])
		if err != nil {
			return err
		}
		cfg.AI.APIKey = ""
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding profile: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd, profileSaveCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}
