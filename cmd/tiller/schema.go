package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tillerhq/tiller/dataset"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the dataset exactly as the model will see it",
		Long: `Prints the role → column binding for the loaded dataset and the sample
rows that get embedded in the generation prompt. Useful for checking a
new listings export before asking anything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := buildTable()
			if err != nil {
				return err
			}
			aliases, err := buildAliases()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRoles(out, aliases, table.Columns())

			fmt.Fprintln(out, "\nprompt sample:")
			fmt.Fprintln(out, dataset.Sample(table, cfg.SampleRows))
			return nil
		},
	}
}
