package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPathsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "paths <namespace>",
		Short: "List candidate preference files in search order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := ctx.preferences(cmd.ErrOrStderr()).Resolver()
			found, ok := resolver.FindFileSync(args[0])
			colorize := shouldColorize(cmd.OutOrStdout())
			out := cmd.OutOrStdout()
			for _, path := range resolver.Paths(args[0]) {
				if ok && path == found {
					fmt.Fprintln(out, paint(colorize, ansiGreen, "* "+path))
					continue
				}
				fmt.Fprintln(out, paint(colorize, ansiDim, "  "+path))
			}
			return nil
		},
	}
}

func newWhichCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "which <namespace>",
		Short: "Print the preference file that would be loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok := ctx.preferences(cmd.ErrOrStderr()).Resolver().FindFileSync(args[0])
			if !ok {
				return fmt.Errorf("no preference file for %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
