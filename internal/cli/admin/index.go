package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tripweave-ai/tripweave/internal/cache"
	"github.com/tripweave-ai/tripweave/internal/config"
	"github.com/tripweave-ai/tripweave/internal/openai"
	"github.com/tripweave-ai/tripweave/internal/repository"
	"github.com/tripweave-ai/tripweave/internal/retrieval"
)

// IndexCmd returns the index command group, for rebuilding subject indexes
// directly against the database without going through the API.
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage retrieval indexes",
	}

	cmd.AddCommand(indexRebuildCmd())
	cmd.AddCommand(indexDropCmd())

	return cmd
}

func indexRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild <subject-id>",
		Short: "Rebuild a subject's retrieval index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexRebuild(args[0])
		},
	}

	return cmd
}

func runIndexRebuild(subjectID string) error {
	ctx := context.Background()

	indexer, cleanup, err := buildIndexer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := indexer.IndexSubject(ctx, subjectID)
	if err != nil {
		if count > 0 {
			fmt.Printf("indexed %d chunks for %s with errors: %v\n", count, subjectID, err)
			return nil
		}
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	fmt.Printf("indexed %d chunks for %s\n", count, subjectID)
	return nil
}

func indexDropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop <subject-id>",
		Short: "Delete a subject's retrieval index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexDrop(args[0])
		},
	}

	return cmd
}

func runIndexDrop(subjectID string) error {
	ctx := context.Background()

	indexer, cleanup, err := buildIndexer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := indexer.DeleteSubjectIndex(ctx, subjectID)
	if err != nil {
		return fmt.Errorf("failed to drop index: %w", err)
	}

	fmt.Printf("deleted %d chunks for %s\n", count, subjectID)
	return nil
}

func buildIndexer(ctx context.Context) (*retrieval.Indexer, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var embedder retrieval.Embedder
	if cfg.HasOpenAI() {
		embedder = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		embedder = retrieval.NewLocalEmbedder(openai.DefaultEmbeddingDimensions)
	}

	indexer := retrieval.NewIndexer(
		repository.NewSources(pool),
		repository.NewChunkStore(pool),
		embedder,
		cache.NewMemoryCache(),
	).WithFreshnessTTL(cfg.IndexFreshnessTTL)

	return indexer, pool.Close, nil
}
