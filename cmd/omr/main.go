package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-service/internal/detection"
	"github.com/ironsheep/omr-service/internal/logger"
	"github.com/ironsheep/omr-service/internal/omr"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type rootOptions struct {
	profile  string
	logLevel string

	log *zap.Logger
}

// params returns the calibration named by --profile, or the defaults.
func (o *rootOptions) params() (detection.Params, error) {
	if o.profile == "" {
		return detection.DefaultParams(), nil
	}
	return omr.LoadProfile(o.profile)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "omr",
		Short:         "Grade bubble answer sheets",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(opts.logLevel)
			if err != nil {
				return err
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.profile, "profile", os.Getenv("OMR_PROFILE"), "calibration profile YAML (default: built-in calibration)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newScanCommand(opts))
	cmd.AddCommand(newProfileCommand(opts))

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "omr:", err)
		os.Exit(1)
	}
}
