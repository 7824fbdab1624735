package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tillerhq/tiller/engine"
	"github.com/tillerhq/tiller/helpers"
)

func newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive question loop against the listings",
		Long: `Starts an interactive session. Type a question in plain language, or a
dot-command:

  .schema           role → column binding for the loaded dataset
  .sample           the preview rows the model sees
  .expr <algebra>   run a query-algebra expression directly
  .edit <n> <value> replace the n-th number of the last question and rerun
  .help             this list
  .quit             leave`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := buildEngine()
			if err != nil {
				return err
			}
			return runREPL(cmd, eng)
		},
	}
}

func runREPL(cmd *cobra.Command, eng *engine.Engine) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tiller> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	table := eng.Table()
	fmt.Fprintf(out, "Tiller %s — %d listings, %d columns\n", version, table.Len(), len(table.Columns()))
	fmt.Fprintln(out, "Ask in plain language. .help for commands, .quit to leave.")
	fmt.Fprintln(out)

	var lastQuery string
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			query, quit := handleDotCommand(cmd, eng, line, lastQuery)
			if quit {
				return nil
			}
			if query == "" {
				continue
			}
			// .edit produced a rewritten question
			line = query
		}

		lastQuery = line
		askAndRender(cmd, eng, line)
	}
}

// handleDotCommand runs one dot-command. It returns a non-empty query when
// the command produced a question to run (.edit), and quit=true on .quit.
func handleDotCommand(cmd *cobra.Command, eng *engine.Engine, line, lastQuery string) (string, bool) {
	out := cmd.OutOrStdout()
	parts := strings.Fields(line)

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return "", true

	case ".help":
		fmt.Fprintln(out, cmd.Long)
		return "", false

	case ".schema":
		printRoles(out, eng.Aliases(), eng.Table().Columns())
		return "", false

	case ".sample":
		fmt.Fprintln(out, eng.Sample())
		return "", false

	case ".expr":
		exprText := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		if exprText == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .expr <algebra expression>")
			return "", false
		}
		ans, err := eng.Evaluate(cmd.Context(), exprText)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), paint(fmt.Sprintf("Error: %v", err), "9"))
			return "", false
		}
		renderAnswer(out, ans, eng.Aliases())
		return "", false

	case ".edit":
		query, err := editQuery(lastQuery, parts[1:])
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), paint(fmt.Sprintf("Error: %v", err), "9"))
			return "", false
		}
		return query, false

	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command %s — .help lists the commands\n", parts[0])
		return "", false
	}
}

// editQuery replaces the n-th numeric token of the previous question.
func editQuery(lastQuery string, args []string) (string, error) {
	if lastQuery == "" {
		return "", fmt.Errorf("no previous question to edit")
	}
	if len(args) != 2 {
		return "", fmt.Errorf("usage: .edit <n> <value>")
	}

	spans := helpers.FindSpans(lastQuery)
	if len(spans) == 0 {
		return "", fmt.Errorf("the previous question has no numbers")
	}

	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 1 || n > len(spans) {
		return "", fmt.Errorf("pick a number from 1 to %d", len(spans))
	}

	replacements := make([]string, len(spans))
	for i, s := range spans {
		replacements[i] = s.Literal
	}
	replacements[n-1] = args[1]
	return helpers.Rewrite(lastQuery, spans, replacements), nil
}

func askAndRender(cmd *cobra.Command, eng *engine.Engine, query string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "· %s\n", highlightNumbers(query))

	ans, err := eng.Ask(cmd.Context(), engine.QueryRequest{Query: query, Model: cfg.Model})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), paint(fmt.Sprintf("Error: %v", err), "9"))
		return
	}
	renderAnswer(out, ans, eng.Aliases())
	fmt.Fprintln(out)
}

// historyFile puts the readline history in the home directory, falling
// back to the temp dir.
func historyFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".tiller_history")
	}
	return filepath.Join(os.TempDir(), "tiller_history")
}
