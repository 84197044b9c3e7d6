package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/ghdigest/internal/config"
	"github.com/joss/ghdigest/internal/store"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local repository-metadata cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache and run-history counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(config.DataDir())
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Database: %s\n", stats.Path)
			fmt.Printf("  Cached repos: %d\n", stats.Repos)
			fmt.Printf("  Recorded runs: %d\n", stats.Runs)

			runs, err := s.ListRuns(cmd.Context(), 5)
			if err != nil {
				return err
			}
			if len(runs) > 0 {
				fmt.Println()
				fmt.Println("Recent runs:")
				for _, r := range runs {
					fmt.Printf("  %s  %s  %d events, %d repos, %dms\n",
						r.CreatedAt.Format("2006-01-02 15:04"), r.Username, r.Events, r.Repos, r.DurationMs)
				}
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached repository metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(config.DataDir())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ClearRepos(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("✓ Repository cache cleared")
			return nil
		},
	}

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
