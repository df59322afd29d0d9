package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/cmdparse"
	"github.com/xaheen/xaheen/internal/model"
	"github.com/xaheen/xaheen/internal/router"
)

// maxLegacyWords bounds multi-word legacy commands such as
// "php artisan make:model".
const maxLegacyWords = 4

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Run a command by name, alias or close match",
	Long: `Run resolves a command exactly (canonical key, usage pattern, alias or
legacy command) and executes it. When nothing resolves, the closest commands
are listed and the exit status is non-zero.

Running "xaheen <command>" without "run" does the same unless <command> is
one of xaheen's own subcommands.`,
	Example: `  xaheen run make:model User
  xaheen run mc Button
  xaheen run ng g c Button`,
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runDispatch,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()
	return sess.dispatch(cmd.Context(), cmd.OutOrStdout(), args)
}

// dispatch resolves args to a route and runs it, or presents suggestions and
// returns router.ErrUnknownCommand.
func (s *session) dispatch(ctx context.Context, w io.Writer, args []string) error {
	route, rest, input, ok := s.resolve(args)
	if !ok {
		return s.unknown(w, input)
	}
	if route.Handler == nil {
		return fmt.Errorf("command %s has no handler", route.Key())
	}
	s.logger.Debug("dispatching", "command", route.Key(), "input", input, "args", rest)
	if err := route.Handler(ctx, w, rest); err != nil {
		return err
	}
	s.record(ctx, route.Key(), rest)
	return nil
}

// resolve finds the route for args: multi-word legacy commands first, then
// "domain:action", "domain action" and single-word aliases.
func (s *session) resolve(args []string) (model.CommandRoute, []string, string, bool) {
	for n := min(len(args), maxLegacyWords); n >= 2; n-- {
		input := strings.Join(args[:n], " ")
		if route, ok := s.matcher.Resolve(input); ok {
			return route, args[n:], input, true
		}
	}
	domains := s.matcher.Registry().Domains()
	input, rest := cmdparse.Split(args, func(d string) bool { return domains[d] })
	route, ok := s.matcher.Resolve(input)
	return route, rest, input, ok
}

// record counts a successful dispatch in memory and in the store. Store
// failures are logged, not returned: the command already ran.
func (s *session) record(ctx context.Context, key string, args []string) {
	s.matcher.Tracker().RecordCommandUsage(key)
	ev := model.UsageEvent{Command: key, Args: args, Timestamp: time.Now()}
	if err := s.store.RecordUsage(ctx, ev); err != nil {
		s.logger.Warn("failed to record usage", "command", key, "error", err)
	}
}

// unknown presents ranked suggestions for input, falling back to the popular
// commands when nothing scores above the threshold.
func (s *session) unknown(w io.Writer, input string) error {
	opts := s.options()
	suggestions := s.matcher.FindMatches(input, s.commandContext(), &opts)
	title := fmt.Sprintf("Unknown command %q. Did you mean:", input)
	if len(suggestions) == 0 {
		suggestions = s.matcher.PopularSuggestions()
		title = fmt.Sprintf("Unknown command %q. Popular commands:", input)
	}
	if jsonOutput {
		if err := writeSuggestionsJSON(w, input, suggestions); err != nil {
			return err
		}
	} else {
		writeSuggestions(w, title, suggestions)
	}
	return fmt.Errorf("%w: %s", router.ErrUnknownCommand, input)
}
