package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/waltergaltieri/nudge/internal/config"
	"github.com/waltergaltieri/nudge/internal/mcp"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "nudge",
		Short: "Nudge - behavior-driven guided help suggestions",
		Long: `nudge watches user interaction signals, detects struggle patterns,
and decides when to offer a guided tour.

It bundles three engines: a behavior pattern matcher, a timing
recommender, and a suggestion orchestrator that owns the queue.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.nudge/config.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPatternsCmd(),
		newSimulateCmd(),
		newAnalyticsCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "nudge version %s\n", version)
			}
		},
	}
}

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run the nudge MCP server over stdio transport.

Agent hosts connect to it to feed interaction events (nudge_track),
queue tours (nudge_trigger), and consume suggestions (nudge_status,
nudge_accept, nudge_dismiss, nudge_analytics).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sessionID, _ := cmd.Flags().GetString("session")
			userID, _ := cmd.Flags().GetString("user")

			server, err := mcp.NewServer(&mcp.Config{
				Name:      "nudge",
				Version:   version,
				SessionID: sessionID,
				UserID:    userID,
				Nudge:     cfg,
			})
			if err != nil {
				return fmt.Errorf("creating MCP server: %w", err)
			}
			return server.Run(context.Background())
		},
	}

	cmd.Flags().String("session", "", "Session identifier")
	cmd.Flags().String("user", "", "User identifier")

	return cmd
}

// loadConfig resolves the engine configuration, honoring --config.
func loadConfig(cmd *cobra.Command) (*config.NudgeConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
