package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayne-enterprises/bidash/internal/app"
)

// session is shared by every subcommand once the root has resolved config.
type session struct {
	cfg    *app.Config
	logger *slog.Logger
}

type rootFlags struct {
	apiBaseURL   string
	fetchTimeout time.Duration
	redisAddr    string
	verbose      bool
}

// NewRootCommand builds the dashctl command tree. Environment configuration is
// loaded the same way the server loads it; flags override individual values.
func NewRootCommand() *cobra.Command {
	var (
		flags rootFlags
		rt    session
	)
	root := &cobra.Command{
		Use:          "dashctl",
		Short:        "Operational helpers for the Wayne Enterprises dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("api-base-url") {
				cfg.APIBaseURL = flags.apiBaseURL
			}
			if fs.Changed("fetch-timeout") {
				cfg.FetchTimeout = flags.fetchTimeout
			}
			if fs.Changed("redis-addr") {
				cfg.RedisAddr = flags.redisAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			rt.cfg = cfg
			rt.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiBaseURL, "api-base-url", "", "API root serving the five feeds (default $API_BASE_URL)")
	pf.DurationVar(&flags.fetchTimeout, "fetch-timeout", 0, "per-feed request timeout (default $FETCH_TIMEOUT)")
	pf.StringVar(&flags.redisAddr, "redis-addr", "", "Redis address for job commands (default $REDIS_ADDR)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log every feed failure")

	root.AddCommand(
		newSnapshotCommand(&rt),
		newRenderCommand(&rt),
		newProbeCommand(&rt),
	)
	return root
}
