package cmd

import (
	"fmt"
	"strings"

	"github.com/Digital-Shane/rlz-tidy/internal/log"
	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var (
		limit   int
		details bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions",
		Long: `Display the sessions recorded in ~/.rlz-tidy/logs, newest first, with the
number of inputs that succeeded or failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := log.GetSessionSummaries()
			if err != nil {
				return fmt.Errorf("failed to read log sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				_, err := fmt.Fprintln(out, "No sessions recorded yet.")
				return err
			}

			if limit > 0 && len(summaries) > limit {
				summaries = summaries[:limit]
			}

			th := opts.theme()
			for _, summary := range summaries {
				meta := summary.Session.Metadata
				fmt.Fprintln(out, th.SessionLine(
					summary.Icon,
					summary.RelativeTime,
					strings.Join(meta.CommandArgs, " "),
					meta.SuccessfulOps,
					meta.FailedOps,
				))
				if !details {
					continue
				}
				for _, op := range summary.Session.Operations {
					status := th.Icon("success")
					if !op.Success {
						status = th.Icon("error")
					}
					line := fmt.Sprintf("    %s %-6s %s", status, op.Type, op.Source)
					if op.Release != "" {
						line += " -> " + op.Release
					}
					if op.Error != "" {
						line += " (" + op.Error + ")"
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to show (0 for all)")
	cmd.Flags().BoolVarP(&details, "details", "d", false, "Show every input of each session")
	return cmd
}
