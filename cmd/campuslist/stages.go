package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campuslist/campuslist"
	"github.com/campuslist/campuslist/internal/log"
)

// stageClient builds a client for a one-shot stage run. The scheduler
// stays off so exactly one pass executes.
func stageClient(envFile string) (*campuslist.Client, error) {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return nil, err
	}

	client, err := campuslist.New(
		campuslist.WithConfig(cfg),
		campuslist.WithLogger(log.NewLogger(cfg).Slog()),
		campuslist.WithSchedulerDisabled(),
	)
	if err != nil {
		return nil, fmt.Errorf("create campuslist client: %w", err)
	}
	return client, nil
}

func fetchTrendsCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "fetch-trends",
		Short: "Run one trends ingestion pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := stageClient(envFile)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			summary, err := client.Pipeline.Run(context.Background())
			if err != nil {
				return fmt.Errorf("trends pass: %w", err)
			}

			fmt.Printf("queries: %d  skipped: %d  cache hits: %d  created: %d  updated: %d  discarded: %d  failed: %d  photos: %d\n",
				summary.Queries, summary.Skipped, summary.CacheHits, summary.Created,
				summary.Updated, summary.Discarded, summary.Failed, summary.PhotosStored)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	return cmd
}

func fetchFactsCmd() *cobra.Command {
	var (
		envFile string
		limit   int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch-facts",
		Short: "Run one AI fact-fill pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := stageClient(envFile)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			summary, err := client.FactFill.Run(context.Background(), limit, force)
			if err != nil {
				return fmt.Errorf("fact-fill pass: %w", err)
			}

			fmt.Printf("candidates: %d  filled: %d  failed: %d\n",
				summary.Candidates, summary.Filled, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to fill (0 uses the configured batch size)")
	cmd.Flags().BoolVar(&force, "force", false, "Refill every record, overwriting existing facts")
	return cmd
}

func scoreCmd() *cobra.Command {
	var (
		envFile string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Run one AI scoring pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := stageClient(envFile)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			summary, err := client.Scoring.Run(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("scoring pass: %w", err)
			}

			fmt.Printf("candidates: %d  scored: %d  failed: %d\n",
				summary.Candidates, summary.Scored, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to score (0 uses the configured batch size)")
	return cmd
}
