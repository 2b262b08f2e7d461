package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meirm/askgpt/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.Load()
		if err != nil {
			out.Error(err, "Failed to load config")
			os.Exit(1)
		}

		yamlOutput, err := yaml.Marshal(cfg)
		if err != nil {
			out.Error(err, "Failed to render config")
			os.Exit(1)
		}

		out.Section("Effective configuration")
		out.Info(string(yamlOutput))
		out.Info("Command evaluation enabled: " + boolString(config.ResolveCommandEval(cfg.EnableCommandEval)))
	},
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
