package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/cmdparse"
	"github.com/xaheen/xaheen/internal/config"
	"github.com/xaheen/xaheen/internal/router"
)

const shellPrompt = "xaheen> "

// shellBuiltins are handled by the shell itself rather than dispatched.
var shellBuiltins = []string{"exit", "quit", "help", "suggest", "next", "routes", "run"}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive xaheen shell",
	Long: `Shell reads commands interactively with history and tab completion.
Each line may chain commands with ";", "&&" and "||". Commands are resolved
and suggested exactly as on the command line.

Changes to ~/.xaheen/config.toml are picked up without restarting.

Built-ins:
  suggest <input>   rank commands similar to input
  next              suggest what to run next
  routes            list registered commands
  help              show this help
  exit, quit        leave the shell`,
	Example: `  xaheen shell
  xaheen> make:model User && make:controller UserController
  xaheen> ng g c Button`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sess, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer sess.Close()

		done := make(chan struct{})
		defer close(done)
		go func() {
			if err := config.Watch(done, configPath, componentLogger("config"), sess.setConfig); err != nil {
				sess.logger.Warn("config watch disabled", "error", err)
			}
		}()

		return sess.repl(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// repl runs the read-eval loop until exit, EOF or context cancellation.
func (s *session) repl(ctx context.Context, w io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            shellPrompt,
		HistoryFile:       filepath.Join(config.Dir(), "shell_history"),
		AutoComplete:      s.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            w,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(w, `xaheen shell. Type "help" for built-ins, TAB to complete.`)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		exit, _ := s.execLine(ctx, w, line)
		if exit {
			return nil
		}
	}
}

// completer offers built-ins and every registered command key.
func (s *session) completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(shellBuiltins)+s.matcher.Registry().Len())
	for _, b := range shellBuiltins {
		items = append(items, readline.PcItem(b))
	}
	for _, r := range s.matcher.Routes() {
		items = append(items, readline.PcItem(r.Key()))
	}
	return readline.NewPrefixCompleter(items...)
}

// execLine runs one input line. Chained segments run according to their
// operator and the previous segment's outcome. It returns true when the
// line asks the shell to exit, and the error of the last segment run.
// Errors are printed to w; unknown commands have already printed their
// suggestions.
func (s *session) execLine(ctx context.Context, w io.Writer, line string) (bool, error) {
	segs, err := cmdparse.Parse(line)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return false, err
	}

	var last error
	for _, seg := range segs {
		if !seg.ShouldRun(last != nil) {
			continue
		}
		if len(seg.Args) == 0 {
			last = nil
			continue
		}
		exit, err := s.execSegment(ctx, w, seg.Args)
		if exit {
			return true, nil
		}
		if err != nil && !errors.Is(err, router.ErrUnknownCommand) {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		last = err
	}
	return false, last
}

func (s *session) execSegment(ctx context.Context, w io.Writer, args []string) (bool, error) {
	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(w, shellCmd.Long)
		return false, nil
	case "suggest":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: suggest <input>")
		}
		input := strings.Join(args[1:], " ")
		opts := s.options()
		suggestions := s.matcher.FindMatches(input, s.commandContext(), &opts)
		if len(suggestions) == 0 {
			fmt.Fprintf(w, "No suggestions found for %q\n", input)
			return false, nil
		}
		writeSuggestions(w, fmt.Sprintf("Suggestions for %q:", input), suggestions)
		return false, nil
	case "next":
		suggestions := s.matcher.GetContextualSuggestions(s.commandContext())
		title := "Suggested next commands:"
		if len(suggestions) == 0 {
			suggestions = s.matcher.PopularSuggestions()
			title = "Popular commands:"
		}
		writeSuggestions(w, title, suggestions)
		return false, nil
	case "routes":
		writeRoutesTable(w, routeRows(s.matcher, ""))
		return false, nil
	case "run":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: run <command> [args...]")
		}
		args = args[1:]
	}
	return false, s.dispatch(ctx, w, args)
}
