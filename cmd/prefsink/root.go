package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var homeFlag string
	var verboseFlag bool

	ctx := newCommandContext(&homeFlag, &verboseFlag)

	rootCmd := &cobra.Command{
		Use:           "prefsink",
		Short:         "Inspect namespaced preference files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Directory to search instead of the user's home")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log every probe and load to stderr")

	rootCmd.AddCommand(newPathsCommand(ctx))
	rootCmd.AddCommand(newWhichCommand(ctx))
	rootCmd.AddCommand(newGetCommand(ctx))
	rootCmd.AddCommand(newEnvCommand())
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newEvalCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}
