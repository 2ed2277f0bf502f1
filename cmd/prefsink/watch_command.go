package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	prefsink "github.com/goliatone/go-prefsink"
	"github.com/goliatone/go-prefsink/watch"
	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounceFlag time.Duration

	cmd := &cobra.Command{
		Use:   "watch <namespace>",
		Short: "Reload and report a namespace whenever its preference file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := ctx.preferences(cmd.ErrOrStderr())
			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			watcher := watch.New(prefs, args[0], watch.WithDebounce(debounceFlag), watch.WithLogger(ctx.logger))
			return watcher.Run(runCtx, func(jar *prefsink.Jar, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
					return
				}
				if source, ok := jar.Source(); ok {
					fmt.Fprintf(out, "%s: %d keys\n", source, len(jar.Keys()))
					return
				}
				fmt.Fprintf(out, "no preference file for %q\n", args[0])
			})
		},
	}
	cmd.Flags().DurationVar(&debounceFlag, "debounce", watch.DefaultDebounce, "Quiet period before reloading")
	return cmd
}
