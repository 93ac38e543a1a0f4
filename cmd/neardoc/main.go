package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wolfman30/neardoc/internal/app/bootstrap"
	appconfig "github.com/wolfman30/neardoc/internal/config"
	"github.com/wolfman30/neardoc/internal/neardoc"
	"github.com/wolfman30/neardoc/pkg/logging"
)

// cli carries the runtime shared by every subcommand.
type cli struct {
	cfg     *appconfig.Config
	logger  *logging.Logger
	runtime *bootstrap.Runtime
	baseURL string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", neardoc.Describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "neardoc",
		Short:         "NearDoc client for doctors and patients",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()
			c.cfg = appconfig.Load()
			if c.baseURL != "" {
				c.cfg.BaseURL = c.baseURL
			}
			c.logger = logging.NewWithWriter(c.cfg.LogLevel, cmd.ErrOrStderr())
			rt, err := bootstrap.BuildRuntime(cmd.Context(), c.cfg, c.logger, nil)
			if err != nil {
				return err
			}
			c.runtime = rt
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.runtime.Close()
		},
	}
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "backend API base URL (overrides NEARDOC_BASE_URL)")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.appointmentsCmd(),
		c.bookCmd(),
		c.notificationsCmd(),
		c.doctorsCmd(),
		c.earningsCmd(),
		c.historyCmd(),
	)
	return root
}
