package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <namespace>",
		Short: "Describe every value in the namespace's preference file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jar, err := ctx.preferences(cmd.ErrOrStderr()).LoadSync(args[0])
			if err != nil {
				return err
			}
			fields := jar.Describe()
			if jsonFlag {
				return writeJSON(cmd, fields)
			}

			out := cmd.OutOrStdout()
			source, ok := jar.Source()
			if !ok {
				fmt.Fprintf(out, "no preference file for %q\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "%s\n", source)
			if len(fields) == 0 {
				return nil
			}

			rows := make([][]string, 0, len(fields))
			for _, field := range fields {
				rows = append(rows, []string{field.Path, field.Type, field.EnvVar, formatValue(field.Value)})
			}
			headers := []string{"Key", "Type", "Env", "Value"}
			fmt.Fprintln(out, renderTable(headers, rows, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Output as JSON")
	return cmd
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
