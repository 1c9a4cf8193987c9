package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waltergaltieri/nudge/internal/behavior"
)

func newPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in behavior patterns",
		Long: `List the built-in behavior pattern catalog in evaluation order.

The matcher evaluates patterns in this order and the first one whose
weighted score clears its confidence floor triggers. Use --explain to
include each pattern's conditions, cooldown, and tour table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			explain, _ := cmd.Flags().GetBool("explain")

			catalog := behavior.DefaultCatalog(cfg.Behavior)
			w := cmd.OutOrStdout()

			if jsonOut {
				out := catalog.Patterns
				if !explain {
					for i := range out {
						out[i].Conditions = nil
					}
				}
				return json.NewEncoder(w).Encode(out)
			}

			for _, p := range catalog.Patterns {
				fmt.Fprintf(w, "%-22s %-8s conf>=%.2f  %s\n", p.ID, p.Priority, p.Confidence, p.Description)
				if !explain {
					continue
				}
				for _, c := range p.Conditions {
					fmt.Fprintf(w, "    condition %-22s threshold=%-8.0f window=%-8s weight=%.1f\n",
						c.Kind, c.Threshold, c.Window, c.Weight)
				}
				fmt.Fprintf(w, "    cooldown %s, max %d per session\n", p.Cooldown, p.MaxPerSession)
				if tours, ok := catalog.Tours[p.ID]; ok {
					for page, tour := range tours {
						fmt.Fprintf(w, "    tour %-22s -> %s\n", page, tour)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("explain", false, "Include conditions, cooldowns, and tour tables")

	return cmd
}
