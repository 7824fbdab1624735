package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tillerhq/tiller/engine"
)

func newQueryCommand() *cobra.Command {
	var idsOnly bool
	var exprText string

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: "Ask one question and print the matching listings",
		Example: `  tiller query "Ferretti boats under 500000"
  tiller query --ids-only "boats in Palma"
  tiller query --expr "df.sort('price', descending=true).head(3)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			// expression mode runs the algebra directly, no generator and
			// no API key involved
			if exprText != "" {
				table, err := buildTable()
				if err != nil {
					return err
				}
				aliases, err := buildAliases()
				if err != nil {
					return err
				}
				eng, err := engine.New(table,
					engine.WithTimeout(cfg.ExecTimeout),
					engine.WithAliases(aliases),
				)
				if err != nil {
					return err
				}
				ans, err := eng.Evaluate(ctx, exprText)
				if err != nil {
					return err
				}
				renderAnswer(out, ans, eng.Aliases())
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("give a question, or --expr to run an expression directly")
			}
			query := strings.Join(args, " ")

			eng, err := buildEngine()
			if err != nil {
				return err
			}

			if idsOnly {
				ids, err := eng.Search(ctx, query)
				if err != nil {
					return err
				}
				encoded, err := json.Marshal(ids)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(encoded))
				return nil
			}

			ans, err := eng.Ask(ctx, engine.QueryRequest{Query: query, Model: cfg.Model})
			if err != nil {
				return err
			}
			renderAnswer(out, ans, eng.Aliases())
			return nil
		},
	}

	cmd.Flags().BoolVar(&idsOnly, "ids-only", false, "print only matching listing ids, as JSON")
	cmd.Flags().StringVar(&exprText, "expr", "", "run a query-algebra expression directly, skipping generation")
	return cmd
}
