package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/xaheen/xaheen/internal/model"
	"github.com/xaheen/xaheen/internal/store"
)

var (
	usageSince string
	usageTop   int
	usageReset bool
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show command usage statistics",
	Long: `Usage lists how often each command was dispatched and when it was last
used. These counts drive the usage boost when ranking suggestions.

--reset deletes the recorded history.`,
	Example: `  xaheen usage
  xaheen usage --since 7d --top 5
  xaheen usage --json
  xaheen usage --reset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Close()

		w := cmd.OutOrStdout()
		if usageReset {
			n, err := sess.store.ResetUsage(cmd.Context())
			if err != nil {
				return err
			}
			sess.matcher.Tracker().Reset()
			fmt.Fprintf(w, "Removed %d usage %s\n", n, plural(n, "event", "events"))
			return nil
		}

		opts := store.UsageOpts{Top: usageTop}
		if usageSince != "" {
			d, err := parseDuration(usageSince)
			if err != nil {
				return fmt.Errorf("invalid --since value %q: %w", usageSince, err)
			}
			opts.Since = time.Now().Add(-d)
		}
		stats, err := sess.store.UsageStats(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if jsonOutput {
			if stats == nil {
				stats = []model.UsageStat{}
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}
		writeUsageTable(w, stats)
		return nil
	},
}

func init() {
	usageCmd.Flags().StringVar(&usageSince, "since", "", "only count usage within this window (e.g. 24h, 7d)")
	usageCmd.Flags().IntVar(&usageTop, "top", 0, "maximum number of commands to show")
	usageCmd.Flags().BoolVar(&usageReset, "reset", false, "delete all recorded usage")
	rootCmd.AddCommand(usageCmd)
}

func writeUsageTable(w io.Writer, stats []model.UsageStat) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No usage recorded yet.")
		return
	}
	tbl := NewTable(w, "COMMAND", "COUNT", "LAST USED")
	for _, s := range stats {
		tbl.Row(s.Command, humanize.Comma(int64(s.Count)), humanize.Time(s.LastUsed))
	}
	tbl.Flush()
}

// parseDuration extends time.ParseDuration with a "d" suffix for days.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	// Handle "d" suffix for days, which time.ParseDuration doesn't support.
	if strings.HasSuffix(s, "d") {
		numStr := s[:len(s)-1]
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", numStr)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
