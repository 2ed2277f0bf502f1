package main

import (
	"fmt"

	prefsink "github.com/goliatone/go-prefsink"
	"github.com/spf13/cobra"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var traceFlag bool

	cmd := &cobra.Command{
		Use:   "get <namespace> <key> [default]",
		Short: "Resolve a preference from the file, the environment or a default",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			jar, err := ctx.preferences(cmd.ErrOrStderr()).LoadSync(args[0])
			if err != nil {
				return err
			}
			var def []any
			if len(args) == 3 {
				def = append(def, args[2])
			}
			if traceFlag {
				return writeJSON(cmd, jar.Trace(args[1], def...))
			}
			return writeJSON(cmd, jar.Get(args[1], def...))
		},
	}
	cmd.Flags().BoolVar(&traceFlag, "trace", false, "Show every tier consulted as JSON")
	return cmd
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env <namespace> <key>",
		Short: "Print the environment variable consulted for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), prefsink.EnvVarName(args[0], args[1]))
			return err
		},
	}
}
