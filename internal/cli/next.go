package cli

import (
	"github.com/spf13/cobra"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Suggest what to run next",
	Long: `Next lists commands that usually follow your most recent one, commands
suited to the detected framework, and, with no history or project, the most
popular commands.`,
	Example: `  xaheen next
  xaheen next --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		suggestions := sess.matcher.GetContextualSuggestions(sess.commandContext())
		title := "Suggested next commands:"
		if len(suggestions) == 0 {
			suggestions = sess.matcher.PopularSuggestions()
			title = "Popular commands:"
		}
		if jsonOutput {
			return writeSuggestionsJSON(w, "", suggestions)
		}
		writeSuggestions(w, title, suggestions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)
}
