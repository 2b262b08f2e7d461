package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/meirm/askgpt/pkg/config"
	"github.com/meirm/askgpt/pkg/logger"
	"github.com/meirm/askgpt/pkg/presenter"
)

var out = presenter.New()

var rootCmd = &cobra.Command{
	Use:   "askgpt",
	Short: "Command-line assistant with reusable prompt commands and skills",
	Long: `askgpt resolves reusable prompt commands and agent skills into final
prompt text. Commands are markdown files with optional YAML frontmatter,
discovered from the project directory (./.askgpt/commands), the user
directory (~/.askgpt/commands), and the builtin set; project definitions
shadow user ones, which shadow builtins. Skills follow the same cascade
under skills/ directories, one <name>/SKILL.md per skill.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if level, err := cmd.Flags().GetString("log-level"); err == nil && level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				out.Warning("Invalid log level, using default")
			}
		}
		if format, err := cmd.Flags().GetString("log-format"); err == nil {
			logger.SetLogFormat(format)
		}
		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
			out.SetQuiet(quiet)
		}
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	config.Init()

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")

	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
