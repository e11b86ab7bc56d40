package main

import (
	"context"
	"fmt"

	"selector-scanner/internal/bootstrap"
	"selector-scanner/internal/config"
	"selector-scanner/internal/entity"
	"selector-scanner/internal/output"
	"selector-scanner/internal/usecase"

	"github.com/spf13/cobra"
)

type options struct {
	format string
	all    bool
	driver string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "scanner",
		Short:         "Synthesize stable selectors for the interactive elements of a web page",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.format, "format", "", "Output format: json or yaml (default from SCAN_FORMAT)")
	root.PersistentFlags().BoolVar(&opts.all, "all", false, "Include invisible elements in the output")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Browser driver: playwright or rod (default from BROWSER_DRIVER)")

	root.AddCommand(
		newScanCmd(opts),
		newFileCmd(opts),
		newShadowCmd(opts),
		newConsoleCmd(opts),
	)

	return root
}

func (o *options) apply(c *config.Config) {
	if o.format != "" {
		c.ScanConfig.Format = o.format
	}

	if o.all {
		c.ScanConfig.IncludeHidden = true
	}

	if o.driver != "" {
		c.BrowserConfig.Driver = o.driver
	}
}

func newScanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <url>",
		Short: "Load a page in the browser and scan it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, opts, func(ctx context.Context, svc *usecase.Service, conf *config.Config) (any, error) {
				report, err := svc.Scan.ScanURL(ctx, args[0])
				if err != nil {
					return nil, err
				}

				return view(report, conf), nil
			})
		},
	}
}

func newFileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Scan a local HTML file without a browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, opts, func(ctx context.Context, svc *usecase.Service, conf *config.Config) (any, error) {
				report, err := svc.Scan.ScanFile(ctx, args[0])
				if err != nil {
					return nil, err
				}

				return view(report, conf), nil
			})
		},
	}
}

func newShadowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shadow <url>",
		Short: "List the interactive elements inside the shadow roots of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, opts, func(ctx context.Context, svc *usecase.Service, _ *config.Config) (any, error) {
				return svc.Scan.ScanShadow(ctx, args[0])
			})
		},
	}
}

func newConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			bootstrap.NewApp(opts.apply).Run()
		},
	}
}

type job func(ctx context.Context, svc *usecase.Service, conf *config.Config) (any, error)

func runJob(cmd *cobra.Command, opts *options, fn job) (err error) {
	var (
		svc  *usecase.Service
		conf *config.Config
	)

	app := bootstrap.NewJob([]any{&svc, &conf}, opts.apply)
	if err := app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	defer func() {
		if stopErr := app.Stop(context.Background()); stopErr != nil && err == nil {
			err = fmt.Errorf("stop: %w", stopErr)
		}
	}()

	result, err := fn(ctx, svc, conf)
	if err != nil {
		return err
	}

	return output.Write(cmd.OutOrStdout(), result, conf.ScanConfig.Format)
}

func view(report *entity.ScanReport, conf *config.Config) *entity.ScanReport {
	if conf.ScanConfig.IncludeHidden {
		return report.WithAll()
	}

	return report
}
