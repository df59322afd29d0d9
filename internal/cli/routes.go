package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/router"
)

var routesDomain string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List registered commands",
	Long: `Routes lists every registered command with its usage pattern, category,
aliases and description, sorted by canonical key.`,
	Example: `  xaheen routes
  xaheen routes --domain helm
  xaheen routes --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		rows := routeRows(sess.matcher, routesDomain)
		if routesDomain != "" && len(rows) == 0 {
			return fmt.Errorf("no commands in domain %q", routesDomain)
		}
		w := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		writeRoutesTable(w, rows)
		return nil
	},
}

func init() {
	routesCmd.Flags().StringVar(&routesDomain, "domain", "", "only list commands in this domain")
	rootCmd.AddCommand(routesCmd)
}

// routeRow is the listing form of a registered route.
type routeRow struct {
	Command     string   `json:"command"`
	Usage       string   `json:"usage"`
	Category    string   `json:"category"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

func routeRows(m *router.Matcher, domain string) []routeRow {
	var rows []routeRow
	for _, r := range m.Routes() {
		if domain != "" && !strings.EqualFold(r.Domain, domain) {
			continue
		}
		rows = append(rows, routeRow{
			Command:     r.Key(),
			Usage:       r.Pattern,
			Category:    m.Category(r.Key()),
			Aliases:     m.AliasesFor(r.Key()),
			Description: r.Description,
			Examples:    r.Examples,
		})
	}
	return rows
}

func writeRoutesTable(w io.Writer, rows []routeRow) {
	tbl := NewTable(w, "COMMAND", "USAGE", "CATEGORY", "ALIASES", "DESCRIPTION")
	for _, r := range rows {
		aliases := "-"
		if len(r.Aliases) > 0 {
			aliases = truncate(strings.Join(r.Aliases, ", "), 30)
		}
		tbl.Row(r.Command, r.Usage, r.Category, aliases, r.Description)
	}
	tbl.Flush()
}
