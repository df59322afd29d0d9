package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/model"
)

var aliasesAll bool

var aliasCmd = &cobra.Command{
	Use:   "alias <from> <to>",
	Short: "Create or update a command alias",
	Long: `Create a shortcut that resolves to a registered command. The target may be
given as a canonical key, a usage pattern or an existing alias; the alias is
stored against the canonical key. Aliases cannot shadow registered commands.`,
	Example: `  xaheen alias comp make:component
  xaheen alias chart hc`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
		if from == "" {
			return fmt.Errorf("alias name must not be empty")
		}

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		if _, ok := sess.matcher.Registry().Lookup(from); ok {
			return fmt.Errorf("%q is already a command and cannot be an alias", from)
		}
		route, ok := sess.matcher.Resolve(to)
		if !ok {
			return fmt.Errorf("unknown target command %q (see \"xaheen suggest %s\")", to, to)
		}
		alias := model.UserAlias{From: strings.ToLower(from), To: route.Key()}
		if err := sess.store.SetAlias(cmd.Context(), alias); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			return writeAliasJSON(w, alias)
		}
		fmt.Fprintf(w, "Alias set: %s → %s\n", alias.From, alias.To)
		return nil
	},
}

var unaliasCmd = &cobra.Command{
	Use:     "unalias <from>",
	Short:   "Delete a user alias",
	Example: `  xaheen unalias comp`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		from := strings.ToLower(strings.TrimSpace(args[0]))
		deleted, err := sess.store.DeleteAlias(cmd.Context(), from)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("no user alias %q", from)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Alias deleted: %s\n", from)
		return nil
	},
}

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "List command aliases",
	Long: `Display user aliases. With --all, built-in shortcuts and legacy commands
from other tools are listed too.`,
	Example: `  xaheen aliases
  xaheen aliases --all
  xaheen aliases --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		user, err := sess.store.GetAliases(cmd.Context())
		if err != nil {
			return err
		}
		rows := make([]aliasRow, 0, len(user))
		isUser := make(map[string]bool, len(user))
		for _, a := range user {
			isUser[a.From] = true
			rows = append(rows, aliasRow{From: a.From, To: a.To, Source: "user", CreatedAt: &a.CreatedAt})
		}
		if aliasesAll {
			for _, r := range sess.matcher.Routes() {
				for _, a := range sess.matcher.AliasesFor(r.Key()) {
					if !isUser[a] {
						rows = append(rows, aliasRow{From: a, To: r.Key(), Source: "built-in"})
					}
				}
			}
			sort.SliceStable(rows, func(i, j int) bool { return rows[i].From < rows[j].From })
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		writeAliasesTable(w, rows)
		return nil
	},
}

func init() {
	aliasesCmd.Flags().BoolVar(&aliasesAll, "all", false, "include built-in and legacy aliases")
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(unaliasCmd)
	rootCmd.AddCommand(aliasesCmd)
}

// aliasRow is the listing form of an alias.
type aliasRow struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Source    string     `json:"source"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func writeAliasJSON(w io.Writer, a model.UserAlias) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

func writeAliasesTable(w io.Writer, rows []aliasRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No aliases configured.")
		return
	}
	tbl := NewTable(w, "FROM", "TO", "SOURCE", "CREATED")
	for _, r := range rows {
		created := "-"
		if r.CreatedAt != nil && !r.CreatedAt.IsZero() {
			created = humanize.Time(*r.CreatedAt)
		}
		tbl.Row(r.From, r.To, r.Source, created)
	}
	tbl.Flush()
}
