// Command alumnictl is a terminal client for the alumni directory: it submits
// profiles, browses the directory by occupation and exports it.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alumni/internal/app"
	"alumni/internal/config"
	"alumni/internal/logging"
	"alumni/internal/recordstore"
)

// options are the global flags shared by every subcommand.
type options struct {
	apiURL  string
	timeout time.Duration
	verbose bool
	logger  *zap.Logger
}

func (o *options) client() *recordstore.Client {
	return recordstore.New(o.apiURL, o.timeout)
}

// shell returns a mounted client shell.
func (o *options) shell(ctx context.Context) *app.App {
	a := app.New(o.client(), o.logger)
	a.Mount(ctx)
	return a
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadClient()
	opts := &options{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "alumnictl",
		Short: "Alumni directory client",
		Long: `alumnictl talks to the alumni API.

Submit your profile, browse fellow alumni by occupation and export the
directory as CSV or XLSX.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := cfg.LogLevel
			if opts.verbose {
				level = "debug"
			}
			logger, err := logging.New("production", level)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api", cfg.APIURL, "Alumni API base URL (or set ALUMNI_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newSubmitCmd(opts),
		newListCmd(opts),
		newTabsCmd(opts),
		newExportCmd(opts),
		newOccupationsCmd(),
		newCheckNameCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
