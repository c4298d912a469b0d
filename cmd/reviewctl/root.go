package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"review_dashboard/internal/adapters/observability"
	"review_dashboard/internal/analysis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/report"
	"review_dashboard/internal/shared"
	"review_dashboard/internal/storage/files"
)

type rootOpts struct {
	cfgFile string
	cfg     shared.Config
	profile analysis.Profile
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	cmd := &cobra.Command{
		Use:          "reviewctl",
		Short:        "Aggregate scraped product reviews from JSON files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init(cmd)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (default ./config.yaml when present)")
	pf.String("data-dir", "", "directory holding *.json review exports (env DATA_DIR)")
	pf.String("profile", "", "analysis profile YAML (env PROFILE_PATH)")
	pf.String("log-level", "", "log level (env LOG_LEVEL)")

	cmd.AddCommand(
		newSummaryCmd(o),
		newSourcesCmd(o),
		newRenderCmd(o),
		newExportCmd(o),
		newSampleCmd(o),
	)
	return cmd
}

// init resolves config with flags taking precedence over env and file.
func (o *rootOpts) init(cmd *cobra.Command) error {
	v, err := shared.NewViper(o.cfgFile)
	if err != nil {
		return err
	}
	for key, flag := range map[string]string{
		"data_dir":     "data-dir",
		"profile_path": "profile",
		"log_level":    "log-level",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	if o.cfg, err = shared.FromViper(v); err != nil {
		return err
	}
	// console writer on stderr; stdout carries the report
	observability.Install(observability.NewLoggerTo(cmd.ErrOrStderr(), "dev", o.cfg.LogLevel))
	o.profile, err = o.cfg.Profile()
	return err
}

func (o *rootOpts) snapshot(ctx context.Context) *app.Snapshot {
	p := app.NewPipeline(files.New(o.cfg.DataDir), o.profile, analysis.NewScorer())
	return p.Build(ctx)
}

func (o *rootOpts) view(ctx context.Context) report.View {
	return report.NewView(o.snapshot(ctx))
}
