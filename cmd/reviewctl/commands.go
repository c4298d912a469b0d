package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"review_dashboard/internal/domain"
	"review_dashboard/internal/report"
	"review_dashboard/internal/storage/files"
)

func newSummaryCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print summary, ratings, aspects, keywords and the monthly trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := o.view(cmd.Context())
			if v.Summary.TotalReviews == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s in %s\n", domain.ErrNoData, o.cfg.DataDir)
			}
			report.RenderTables(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSourcesCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show which source each file was attributed to and what failed to load",
		RunE: func(cmd *cobra.Command, args []string) error {
			report.RenderLoadReport(cmd.OutOrStdout(), o.view(cmd.Context()))
			return nil
		},
	}
}

func newRenderCmd(o *rootOpts) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the HTML dashboard to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = o.cfg.ReportPath
			}
			snap := o.snapshot(cmd.Context())
			var buf bytes.Buffer
			var err error
			if snap.Empty() {
				err = report.RenderNoData(&buf, snap.Info())
			} else {
				err = report.RenderHTML(&buf, report.NewView(snap))
			}
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d reviews)\n", out, len(snap.Reviews))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default REPORT_PATH)")
	return cmd
}

func newExportCmd(o *rootOpts) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an XLSX workbook with one sheet per view and charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := o.snapshot(cmd.Context())
			if snap.Empty() {
				return fmt.Errorf("export: %w in %s", domain.ErrNoData, o.cfg.DataDir)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.WriteWorkbook(f, report.NewView(snap)); err != nil {
				_ = f.Close()
				return fmt.Errorf("export: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "reviews.xlsx", "output file")
	return cmd
}

func newSampleCmd(o *rootOpts) *cobra.Command {
	var (
		dir  string
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write synthetic Google Play, App Store and Trustpilot exports for trying the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = o.cfg.DataDir
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			paths, err := files.NewSampler(seed, time.Now()).Write(dir, files.DefaultSamplePlatforms)
			if err != nil {
				return fmt.Errorf("sample: %w", err)
			}
			for i, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d reviews)\n", p, files.DefaultSamplePlatforms[i].Count)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "out", "o", "", "output directory (default DATA_DIR)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output")
	return cmd
}
