package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"civicfund/internal/service"
	"civicfund/internal/store"
)

type deps struct {
	out              io.Writer
	openStores       func(ctx context.Context) (*store.Stores, error)
	migrate          func(ctx context.Context) ([]string, error)
	leaderboardLimit int
	logger           zerolog.Logger
}

func newRootCmd(d *deps) *cobra.Command {
	var (
		jsonOut bool
		timeout time.Duration
	)
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Admin tooling for the civicfund ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the command")

	withStores := func(cmd *cobra.Command, fn func(ctx context.Context, s *store.Stores) error) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		s, err := d.openStores(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(ctx, s)
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			applied, err := d.migrate(ctx)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(d.out, map[string]any{"applied": applied})
			}
			if len(applied) == 0 {
				_, _ = fmt.Fprintln(d.out, "schema up to date")
				return nil
			}
			for _, v := range applied {
				_, _ = fmt.Fprintf(d.out, "applied %s\n", v)
			}
			return nil
		},
	}

	var limit int
	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top contributors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd, func(ctx context.Context, s *store.Stores) error {
				top, err := service.NewLeaderboard(s.Contributions, d.leaderboardLimit).Rank(ctx, limit)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(d.out, top)
				}
				tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "RANK\tEMAIL\tNAME\tCOUNT\tFIRST")
				for i, c := range top {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i+1, c.ContributorEmail, c.ContributorName, c.Count, c.FirstContributed.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
	leaderboardCmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of contributors (0 uses LEADERBOARD_LIMIT)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print community totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd, func(ctx context.Context, s *store.Stores) error {
				stats, err := service.NewCommunity(s.Users, s.Issues, s.Contributions, d.logger).Summarize(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(d.out, stats)
				}
				tw := tabwriter.NewWriter(d.out, 0, 4, 2, ' ', 0)
				_, _ = fmt.Fprintf(tw, "users\t%d\n", stats.TotalUsers)
				_, _ = fmt.Fprintf(tw, "issues\t%d\n", stats.TotalIssues)
				_, _ = fmt.Fprintf(tw, "resolved\t%d\n", stats.Resolved)
				_, _ = fmt.Fprintf(tw, "pending\t%d\n", stats.Pending)
				_, _ = fmt.Fprintf(tw, "contributions\t%d\n", stats.TotalContributions)
				_, _ = fmt.Fprintf(tw, "collected\t%s\n", stats.TotalCollected.StringFixed(2))
				return tw.Flush()
			})
		},
	}

	var issueID string
	totalCmd := &cobra.Command{
		Use:   "total",
		Short: "Print the amount collected for one issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStores(cmd, func(ctx context.Context, s *store.Stores) error {
				enricher := service.NewEnricher(s.Issues, 1, service.EnrichBatch)
				total, err := service.NewLedger(s.Contributions, enricher, s.Views, d.logger).Total(ctx, issueID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(d.out, map[string]any{"issueId": issueID, "totalCollected": total})
				}
				_, _ = fmt.Fprintln(d.out, total.StringFixed(2))
				return nil
			})
		},
	}
	totalCmd.Flags().StringVar(&issueID, "issue", "", "issue id (required)")
	_ = totalCmd.MarkFlagRequired("issue")

	root.AddCommand(migrateCmd, leaderboardCmd, statsCmd, totalCmd)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
