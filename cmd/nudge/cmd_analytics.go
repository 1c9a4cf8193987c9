package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waltergaltieri/nudge/internal/store"
)

func newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show per-tour outcomes from the analytics database",
		Long: `Show per-tour suggestion outcomes aggregated across all recorded
sessions. Reads the SQLite analytics database the MCP server writes
when the store is enabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = cfg.Store.Path
			}

			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening analytics database: %w", err)
			}
			defer st.Close()

			stats, err := st.TourStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading tour stats: %w", err)
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(w).Encode(stats)
			}

			if len(stats) == 0 {
				fmt.Fprintln(w, "no recorded suggestions")
				return nil
			}
			fmt.Fprintf(w, "%-28s %7s %9s %10s %7s\n", "TOUR", "SHOWN", "ACCEPTED", "DISMISSED", "RATE")
			for _, s := range stats {
				rate := 0.0
				if s.Shown > 0 {
					rate = float64(s.Accepted) / float64(s.Shown)
				}
				fmt.Fprintf(w, "%-28s %7d %9d %10d %6.0f%%\n", s.TourID, s.Shown, s.Accepted, s.Dismissed, rate*100)
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "Analytics database path (default from config)")

	return cmd
}
