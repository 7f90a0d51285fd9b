package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/app"
	"github.com/abhisek/wordiz/internal/config"
	"github.com/abhisek/wordiz/internal/logging"
	"github.com/abhisek/wordiz/internal/provision"
	"github.com/abhisek/wordiz/internal/selfupdate"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/vocab"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().String("native", "", "Preselect your native language (ISO 639-1 code)")
	cmd.Flags().String("tested", "", "Preselect the language to practice")
	cmd.Flags().String("difficulty", "", "Preselect EASY, MEDIUM or HARD")
	cmd.Flags().String("domain", "", "Preselect a topic such as ANIMALS")
	cmd.Flags().String("type", "", "Preselect COMPREHENSION, EXPRESSION or MIXED")
}

func playDefaults(cmd *cobra.Command) provision.Config {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return provision.Config{
		NativeLanguage: get("native"),
		LanguageTested: get("tested"),
		Difficulty:     vocab.Difficulty(get("difficulty")),
		Domain:         get("domain"),
		SessionType:    vocab.SessionType(get("type")),
	}
}

// runApp builds the session service, local or remote, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	closeLog, err := setupFileLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	} else {
		defer closeLog()
	}

	opts := app.Options{
		Learner:  cfg.Learner,
		Defaults: playDefaults(cmd),
		Notice:   updateNotice(ctx),
	}

	svc, closeSvc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSvc()
	opts.Service = svc
	if cfg.Remote() {
		opts.Learner = cfg.APIURL
	}
	return app.Run(opts)
}

// newService returns a client for WORDIZ_API_URL when set, otherwise a
// local service over the store scoped to cfg.Learner.
func newService(ctx context.Context, cfg config.Config) (provision.Service, func(), error) {
	if cfg.Remote() {
		return provision.NewClient(cfg.APIURL, cfg.APIToken, nil), func() {}, nil
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	local := provision.NewLocal(st.CatalogRepo(), st.SessionRepo(), provision.WithProgress(st.ProgressRepo()))
	return provision.ForLearner(local, cfg.Learner), func() { _ = st.Close() }, nil
}

// setupFileLogging sends slog output to wordiz.log in the data dir so it
// never draws over the TUI.
func setupFileLogging(cfg config.Config) (func(), error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	dir, err := store.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "wordiz.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logging.Setup(f, level, false)
	return func() { _ = f.Close() }, nil
}

// updateNotice returns a home screen hint when a newer release exists.
// Failures are silent; the check never delays startup by more than 2s.
func updateNotice(ctx context.Context) string {
	if version == devVersion {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	res, err := selfupdate.NewChecker().Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil || !res.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf("New version %s available (wordiz update)", res.LatestVersion)
}
