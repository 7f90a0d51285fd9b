package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/config"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

var rootCmd = &cobra.Command{
	Use:   "wordiz",
	Short: "Vocabulary practice in your terminal",
	Long: "Wordiz drills translation pairs until every word is answered correctly,\n" +
		"then scores the session by how many words were right on the first try.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database path or DSN (overrides WORDIZ_DB env var)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or postgres (overrides WORDIZ_DB_DRIVER)")
	rootCmd.PersistentFlags().String("learner", "", "Learner id for local play (overrides WORDIZ_LEARNER)")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadConfig reads WORDIZ_* settings and applies persistent flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBDSN = v
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.DBDriver = v
	}
	if v, _ := cmd.Flags().GetString("learner"); v != "" {
		cfg.Learner = v
	}
	return cfg
}

// resolveDB returns the driver and DSN using the --db flag (highest
// priority), then WORDIZ_DB, then the default XDG path for SQLite.
func resolveDB(cfg config.Config) (string, string, error) {
	switch cfg.DBDriver {
	case store.DriverPostgres, "pgx":
		if cfg.DBDSN == "" {
			return "", "", fmt.Errorf("WORDIZ_DB (or --db) must hold a DSN for the postgres driver")
		}
		return store.DriverPostgres, cfg.DBDSN, nil
	case "", store.DriverSQLite:
	default:
		return "", "", fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	if cfg.DBDSN != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), 0o755); err != nil {
			return "", "", err
		}
		return store.DriverSQLite, cfg.DBDSN, nil
	}
	p, err := store.DefaultDBPath()
	if err != nil {
		return "", "", err
	}
	return store.DriverSQLite, p, nil
}

// openStore opens the configured database and loads the built-in word list
// into an empty catalog.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, error) {
	driver, dsn, err := resolveDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := ensureSeeded(ctx, st.CatalogRepo()); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func ensureSeeded(ctx context.Context, catalog store.CatalogRepo) error {
	n, err := catalog.CountWords(ctx)
	if err != nil {
		return fmt.Errorf("count words: %w", err)
	}
	if n > 0 {
		return nil
	}
	wl, err := vocab.Seed()
	if err != nil {
		return fmt.Errorf("load seed words: %w", err)
	}
	if _, err := catalog.ImportWords(ctx, wl); err != nil {
		return fmt.Errorf("import seed words: %w", err)
	}
	return nil
}
