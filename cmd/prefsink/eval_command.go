package main

import (
	"strings"

	prefsink "github.com/goliatone/go-prefsink"
	"github.com/spf13/cobra"
)

func newEvalCommand(ctx *commandContext) *cobra.Command {
	var engineFlag string

	cmd := &cobra.Command{
		Use:   "eval <namespace> <expression>",
		Short: "Evaluate an expression against a namespace's preferences",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			evaluator, err := prefsink.NewEvaluator(strings.ToLower(strings.TrimSpace(engineFlag)))
			if err != nil {
				return err
			}
			prefs := ctx.preferences(cmd.ErrOrStderr())
			loaded, err := prefs.LoadSync(args[0])
			if err != nil {
				return err
			}
			source, _ := loaded.Source()
			jar := prefsink.NewJar(loaded.Namespace(), loaded.Values(), source,
				prefsink.WithEvaluator(evaluator),
				prefsink.WithEvaluationObserver(prefsink.SlogObserver(ctx.logger)),
			)
			value, err := jar.Evaluate(args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd, value)
		},
	}
	cmd.Flags().StringVar(&engineFlag, "engine", "expr", "Expression engine: expr, cel or js")
	return cmd
}
