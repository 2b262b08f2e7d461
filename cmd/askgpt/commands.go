package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/meirm/askgpt/pkg/commands"
)

type CommandListConfig struct {
	ShowPath   bool
	JSONOutput bool
}

func getCommandListConfigFromFlags(cmd *cobra.Command) *CommandListConfig {
	config := &CommandListConfig{}
	config.ShowPath, _ = cmd.Flags().GetBool("path")
	config.JSONOutput, _ = cmd.Flags().GetBool("json")
	return config
}

type CommandCreateConfig struct {
	Global    bool
	Overwrite bool
}

func getCommandCreateConfigFromFlags(cmd *cobra.Command) *CommandCreateConfig {
	config := &CommandCreateConfig{}
	config.Global, _ = cmd.Flags().GetBool("global")
	config.Overwrite, _ = cmd.Flags().GetBool("overwrite")
	return config
}

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Manage prompt commands",
	Long:  `List, inspect, and create prompt command definitions.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var commandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available commands",
	Run: func(cmd *cobra.Command, _ []string) {
		if err := listCommands(cmd.Context(), getCommandListConfigFromFlags(cmd)); err != nil {
			out.Error(err, "Failed to list commands")
			os.Exit(1)
		}
	},
}

var commandsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a command definition",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showCommand(cmd.Context(), args[0]); err != nil {
			out.Error(err, "Failed to show command")
			os.Exit(1)
		}
	},
}

var commandsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new command template",
	Long: `Create a starter command file in the project command directory,
or the user-global one with --global.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := createCommand(args[0], getCommandCreateConfigFromFlags(cmd)); err != nil {
			out.Error(err, "Failed to create command")
			os.Exit(1)
		}
	},
}

func init() {
	commandsListCmd.Flags().Bool("path", false, "Show source file paths")
	commandsListCmd.Flags().Bool("json", false, "Output as JSON")
	commandsCreateCmd.Flags().BoolP("global", "g", false, "Create in the user-global directory")
	commandsCreateCmd.Flags().Bool("overwrite", false, "Replace an existing command")

	commandsCmd.AddCommand(commandsListCmd)
	commandsCmd.AddCommand(commandsShowCmd)
	commandsCmd.AddCommand(commandsCreateCmd)
}

func listCommands(ctx context.Context, config *CommandListConfig) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}

	list, err := store.Discover(ctx)
	if err != nil {
		out.Warning("Some command files could not be read")
	}

	if config.JSONOutput {
		return renderCommandsJSON(os.Stdout, list)
	}
	return renderCommandsTable(os.Stdout, list, config.ShowPath)
}

func renderCommandsJSON(w io.Writer, list []*commands.Command) error {
	type commandOutput struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Source      string   `json:"source"`
		Tools       []string `json:"tools,omitempty"`
		Path        string   `json:"path,omitempty"`
	}

	output := make([]commandOutput, 0, len(list))
	for _, c := range list {
		output = append(output, commandOutput{
			Name:        c.Name,
			Description: c.Description,
			Source:      c.Source,
			Tools:       c.RequiredTools,
			Path:        c.Path,
		})
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error generating JSON output")
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderCommandsTable(w io.Writer, list []*commands.Command, showPath bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if showPath {
		fmt.Fprintln(tw, "Name\tDescription\tSource\tPath")
		fmt.Fprintln(tw, "----\t-----------\t------\t----")
	} else {
		fmt.Fprintln(tw, "Name\tDescription\tSource")
		fmt.Fprintln(tw, "----\t-----------\t------")
	}

	for _, c := range list {
		desc := c.Description
		if len(desc) > 60 {
			desc = desc[:60] + "..."
		}
		if showPath {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, desc, c.Source, c.Path)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, desc, c.Source)
		}
	}

	return tw.Flush()
}

func showCommand(ctx context.Context, name string) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}

	cmd, ok := store.Load(ctx, name)
	if !ok {
		return errors.Errorf("command '%s' not found", name)
	}

	out.Section(cmd.Name)
	out.Info("Description: " + cmd.Description)
	out.Info("Source: " + cmd.Source + " (" + cmd.Path + ")")
	if len(cmd.RequiredTools) > 0 {
		out.Info("Required tools: " + fmt.Sprint(cmd.RequiredTools))
	}
	out.Info("")
	out.Info(cmd.PromptTemplate)
	return nil
}

func createCommand(name string, config *CommandCreateConfig) error {
	store, _, err := newStore()
	if err != nil {
		return err
	}

	path, err := store.CreateTemplate(name, config.Global, config.Overwrite)
	if err != nil {
		return err
	}

	out.Success("Created command template: " + path)
	return nil
}
