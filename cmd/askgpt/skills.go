package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/meirm/askgpt/pkg/skills"
)

type SkillListConfig struct {
	JSONOutput bool
}

func getSkillListConfigFromFlags(cmd *cobra.Command) *SkillListConfig {
	config := &SkillListConfig{}
	config.JSONOutput, _ = cmd.Flags().GetBool("json")
	return config
}

type SkillInstallConfig struct {
	Overwrite bool
}

func getSkillInstallConfigFromFlags(cmd *cobra.Command) *SkillInstallConfig {
	config := &SkillInstallConfig{}
	config.Overwrite, _ = cmd.Flags().GetBool("overwrite")
	return config
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage agent skills",
	Long:  `List, inspect, and install agent skills.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available skills",
	Run: func(cmd *cobra.Command, _ []string) {
		if err := listSkills(cmd.Context(), getSkillListConfigFromFlags(cmd)); err != nil {
			out.Error(err, "Failed to list skills")
			os.Exit(1)
		}
	},
}

var skillsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a skill's instructions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showSkill(cmd.Context(), args[0]); err != nil {
			out.Error(err, "Failed to show skill")
			os.Exit(1)
		}
	},
}

var skillsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the builtin skills into the user skill directory",
	Long: `Copy the skills packaged with askgpt into ~/.askgpt/skills so they
can be edited. Existing skills are skipped unless --overwrite is set.`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := installSkills(getSkillInstallConfigFromFlags(cmd)); err != nil {
			out.Error(err, "Failed to install skills")
			os.Exit(1)
		}
	},
}

func init() {
	skillsListCmd.Flags().Bool("json", false, "Output as JSON")
	skillsInstallCmd.Flags().Bool("overwrite", false, "Replace existing skills")

	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsShowCmd)
	skillsCmd.AddCommand(skillsInstallCmd)
}

func listSkills(ctx context.Context, config *SkillListConfig) error {
	_, discovery, err := newStore()
	if err != nil {
		return err
	}

	list, err := discovery.ListSkills(ctx)
	if err != nil {
		out.Warning("Some skill files could not be read")
	}

	if config.JSONOutput {
		return renderSkillsJSON(os.Stdout, list)
	}
	return renderSkillsTable(os.Stdout, list)
}

func renderSkillsJSON(w io.Writer, list []*skills.Skill) error {
	type skillOutput struct {
		Name           string   `json:"name"`
		Description    string   `json:"description"`
		Source         string   `json:"source"`
		Enabled        bool     `json:"enabled"`
		DisabledReason string   `json:"disabledReason,omitempty"`
		Tools          []string `json:"tools,omitempty"`
	}

	output := make([]skillOutput, 0, len(list))
	for _, s := range list {
		output = append(output, skillOutput{
			Name:           s.Name,
			Description:    s.Description,
			Source:         s.Source,
			Enabled:        s.Enabled,
			DisabledReason: s.DisabledReason,
			Tools:          s.RequiredTools,
		})
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderSkillsTable(w io.Writer, list []*skills.Skill) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Name\tDescription\tSource\tStatus")
	fmt.Fprintln(tw, "----\t-----------\t------\t------")

	for _, s := range list {
		desc := s.Description
		if len(desc) > 60 {
			desc = desc[:60] + "..."
		}
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, desc, s.Source, status)
	}

	return tw.Flush()
}

func showSkill(ctx context.Context, name string) error {
	_, discovery, err := newStore()
	if err != nil {
		return err
	}

	skill, ok := discovery.GetSkill(ctx, name)
	if !ok {
		return errors.Errorf("skill '%s' not found", name)
	}

	out.Section(skill.Name)
	out.Info("Description: " + skill.Description)
	out.Info("Source: " + skill.Source + " (" + skill.Path + ")")
	if !skill.Enabled {
		out.Warning("Disabled: " + skill.DisabledReason)
	}
	out.Info("")
	out.Info(skill.Instructions)
	return nil
}

func installSkills(config *SkillInstallConfig) error {
	_, discovery, err := newStore()
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "failed to get user home directory")
	}
	target := filepath.Join(home, ".askgpt", "skills")

	installed, err := discovery.InstallBuiltin(target, config.Overwrite)
	if err != nil {
		return err
	}

	for name, written := range installed {
		if written {
			out.Success("Installed skill: " + name)
		} else {
			out.Info("Skipped existing skill: " + name)
		}
	}
	return nil
}
