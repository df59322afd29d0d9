package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/model"
)

var (
	suggestThreshold float64
	suggestTopN      int
	suggestNoAliases bool
	suggestNoContext bool
)

// suggestCmd ranks registered commands against free-form input.
var suggestCmd = &cobra.Command{
	Use:   "suggest <input>",
	Short: "Rank commands similar to the given input",
	Long: `Suggest scores every registered command against the input using prefix,
substring, edit-distance and token-overlap similarity. Exact aliases score
100%. Unless --no-context is given, scores are boosted by recent commands,
usage counts, category weights, preferred commands and the detected project.

Defaults for --top and --threshold come from the max_suggestions and
min_similarity config keys.`,
	Example: `  xaheen suggest make:componnt
  xaheen suggest "helm chrt" --top 3
  xaheen suggest tenant --threshold 0.5 --no-context
  xaheen suggest mc --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.Join(args, " ")
		w := cmd.OutOrStdout()

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		opts := sess.options()
		if cmd.Flags().Changed("top") {
			if suggestTopN <= 0 {
				return fmt.Errorf("--top must be positive, got %d", suggestTopN)
			}
			opts.MaxSuggestions = suggestTopN
		}
		if cmd.Flags().Changed("threshold") {
			if suggestThreshold < 0 || suggestThreshold > 1 {
				return fmt.Errorf("--threshold must be in [0,1], got %v", suggestThreshold)
			}
			opts.MinSimilarity = suggestThreshold
		}
		if suggestNoAliases {
			opts.IncludeAliases = false
		}
		if suggestNoContext {
			opts.ContextualBoost = false
		}

		suggestions := sess.matcher.FindMatches(input, sess.commandContext(), &opts)
		if jsonOutput {
			return writeSuggestionsJSON(w, input, suggestions)
		}
		if len(suggestions) == 0 {
			fmt.Fprintf(w, "No suggestions found for %q\n", input)
			return nil
		}
		writeSuggestions(w, fmt.Sprintf("Suggestions for %q:", input), suggestions)
		return nil
	},
}

func init() {
	suggestCmd.Flags().Float64Var(&suggestThreshold, "threshold", 0, "minimum similarity score (default from config, 0.3)")
	suggestCmd.Flags().IntVar(&suggestTopN, "top", 0, "maximum number of suggestions (default from config, 5)")
	suggestCmd.Flags().BoolVar(&suggestNoAliases, "no-aliases", false, "ignore exact alias hits")
	suggestCmd.Flags().BoolVar(&suggestNoContext, "no-context", false, "disable contextual boosts")
	rootCmd.AddCommand(suggestCmd)
}

// suggestOutput is the JSON structure for suggestion lists.
type suggestOutput struct {
	Query       string                    `json:"query,omitempty"`
	Suggestions []model.CommandSuggestion `json:"suggestions"`
}

// writeSuggestionsJSON writes suggestions as JSON.
func writeSuggestionsJSON(w io.Writer, query string, suggestions []model.CommandSuggestion) error {
	if suggestions == nil {
		suggestions = []model.CommandSuggestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suggestOutput{Query: query, Suggestions: suggestions})
}

// writeSuggestions writes a titled, ranked suggestion table. Confidence is
// colored by band on a terminal.
func writeSuggestions(w io.Writer, title string, suggestions []model.CommandSuggestion) {
	if title != "" {
		fmt.Fprintln(w, title)
	}
	tbl := NewTable(w, "RANK", "COMMAND", "CONFIDENCE", "CATEGORY", "USAGE")
	for i, s := range suggestions {
		usage := s.Usage
		if usage == "" {
			usage = "-"
		}
		tbl.Row(strconv.Itoa(i+1), s.Command, tbl.Confidence(s.Similarity), s.Category, usage)
	}
	tbl.Flush()
}
