package main

import (
	"context"
	"fmt"
	"os"
	"time"

	mongoadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/mongo"
	redisadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/redis"
	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/repository"
	"github.com/devhermez/full-stack-sneakup/internal/seed"
	"github.com/spf13/cobra"
)

var timeout time.Duration

func main() {
	rootCmd := &cobra.Command{
		Use:          "seeder",
		Short:        "Load or clear SneakUp demo data",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for the run")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "import",
		Short: "Replace all products, users and orders with the demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, s *seed.Seeder) error {
				return s.Import(ctx)
			})
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "destroy",
		Short: "Remove all products, users and orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSeeder(cmd.Context(), func(ctx context.Context, s *seed.Seeder) error {
				return s.Destroy(ctx)
			})
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withSeeder(parent context.Context, run func(context.Context, *seed.Seeder) error) error {
	cfg := config.MustLoad()

	log, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   "console",
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	log.Info("Connected to MongoDB")
	db := mongoadapter.Database(mongoClient, cfg.MongoDB)

	// Without Redis the seeder still runs; cached products then expire on their own.
	var cache repository.ProductCache
	if redisClient, err := redisadapter.NewClient(ctx, cfg.Redis); err != nil {
		log.Warnf("Redis unavailable, product cache will not be cleared: %v", err)
	} else {
		defer func() { _ = redisClient.Close() }()
		cache = redisadapter.NewProductCacheRepository(redisClient)
	}

	s := seed.NewSeeder(
		mongoadapter.NewUserRepository(db, log),
		mongoadapter.NewProductRepository(db),
		mongoadapter.NewOrderRepository(db, log),
		cache,
		log,
	)
	if err := run(ctx, s); err != nil {
		return err
	}
	log.Info("Done")
	return nil
}
