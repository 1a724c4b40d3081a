package cmd

import (
	"context"
	"log/slog"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/db"
	"github.com/cleverage/tools/pkg/indexer"
	"github.com/cleverage/tools/pkg/process"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type indexerParams struct {
	fx.In

	Config   *config.Config
	Registry *db.Registry
}

// indexerReindex creates the indexer:reindex command. Each indexer is rebuilt
// through the platform, with a warning when it is already flagged as working.
//
// Example usage:
//
//	cleverage-tools cleverage:tools:indexer:reindex catalog_product_price catalogsearch_fulltext
func indexerReindex(p indexerParams) *cli.Command {
	return &cli.Command{
		Name:      "cleverage:tools:indexer:reindex",
		Usage:     "Reindex the given indexers, warning about those already working",
		ArgsUsage: "<indexer id>...",
		Before:    requireConfig(p.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return errors.New("at least one indexer id is required")
			}

			conn, err := p.Registry.Get(ctx, p.Config.Indexer.Connection)
			if err != nil {
				return err
			}

			out := newOutput(ctx, cmd)
			reindex := &process.Command{Argv: p.Config.Indexer.Command, Dir: p.Config.Root}

			for _, id := range cmd.Args().Slice() {
				slog.Info("Reindexing", "indexer", id)

				idx := indexer.WarnWhenWorking(
					indexer.NewStateIndexer(id, conn, reindex, out),
					slog.Default(),
					stderr(cmd),
				)
				if err := idx.ReindexAll(ctx); err != nil {
					return err
				}
			}

			return nil
		},
	}
}
