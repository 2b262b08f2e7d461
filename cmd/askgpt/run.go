package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <name> [arguments...]",
	Short: "Resolve a command or skill into final prompt text",
	Long: `Resolve a command (or, when no command matches, a skill) by name,
substituting the remaining arguments for $ARGUMENTS in its template,
and print the final prompt text.

Shell evaluation of $` + "`cmd`" + ` spans inside templates is disabled unless
ASKGPT_ENABLE_COMMAND_EVAL is set to true, 1, yes, or on.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.TrimPrefix(args[0], "/")
		arguments := strings.Join(args[1:], " ")

		store, _, err := newStore()
		if err != nil {
			out.Error(err, "Failed to initialize")
			os.Exit(1)
		}

		result, ok := store.Execute(cmd.Context(), name, arguments)
		if !ok {
			out.Error(fmt.Errorf("command or skill '/%s' not found", name), "")
			out.Info("List what is available with: askgpt commands list, askgpt skills list")
			os.Exit(1)
		}

		if strings.HasPrefix(result, "[Error:") {
			out.Error(fmt.Errorf("%s", strings.Trim(result[7:], " ]")), "Command execution failed")
			os.Exit(1)
		}

		fmt.Println(result)
	},
}
