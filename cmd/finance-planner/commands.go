package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/finance-planner/internal/coach"
	"github.com/iwvelando/finance-planner/internal/config"
	"github.com/iwvelando/finance-planner/internal/fire"
	"github.com/iwvelando/finance-planner/internal/forecast"
	"github.com/iwvelando/finance-planner/internal/optimizer"
	"github.com/iwvelando/finance-planner/internal/server"
	"github.com/iwvelando/finance-planner/internal/trend"
	"github.com/iwvelando/finance-planner/pkg/constants"
	"github.com/iwvelando/finance-planner/pkg/output"
	"github.com/iwvelando/finance-planner/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	configPath   string
	logLevel     string
	outputFormat string
}

// session is a loaded plan with its logger and resolved output format.
type session struct {
	conf   *config.Configuration
	logger *zap.Logger
	format string
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func openSession(flags *globalFlags) (*session, error) {
	conf, err := config.LoadConfiguration(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", flags.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, flags.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if flags.outputFormat != "" {
		outputFormat = flags.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	return &session{conf: conf, logger: logger, format: outputFormat}, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:          "finance-planner",
		Short:        "Personal finance projection and planning",
		Long:         "Projects net worth forward, solves for required savings, computes FIRE numbers, fits historical trends and gives advice for a household plan.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", constants.DefaultConfigFile, "path to plan file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.outputFormat, "output-format", "", "type of output override: pretty, csv, json")

	root.AddCommand(
		projectCmd(flags),
		reverseCmd(flags),
		fireCmd(flags),
		forecastCmd(flags),
		coachCmd(flags),
		validateCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return root
}

func projectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "project",
		Short: "Project net worth forward year by year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := forecast.NewProjector(s.logger).Project(s.conf.ProjectionRequest())
			if err != nil {
				return fmt.Errorf("failed to compute projection: %w", err)
			}
			return output.Projection(cmd.OutOrStdout(), s.format, *result, s.conf.Currency)
		},
	}
}

func reverseCmd(flags *globalFlags) *cobra.Command {
	var target float64
	var years int

	cmd := &cobra.Command{
		Use:   "reverse",
		Short: "Solve for the monthly contribution that reaches the target net worth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			req := s.conf.ReverseRequest()
			if cmd.Flags().Changed("target") {
				req.TargetNetWorth = target
			}
			if cmd.Flags().Changed("years") {
				req.Years = years
			}

			result, err := optimizer.NewSolver(s.logger, s.conf.Solver.Options()).Solve(req)
			if err != nil {
				return fmt.Errorf("failed to solve for contribution: %w", err)
			}
			return output.Reverse(cmd.OutOrStdout(), s.format, *result, s.conf.Currency)
		},
	}
	cmd.Flags().Float64Var(&target, "target", 0, "target net worth override")
	cmd.Flags().IntVar(&years, "years", 0, "years to reach the target override")
	return cmd
}

func fireCmd(flags *globalFlags) *cobra.Command {
	var spend float64
	var swr float64

	cmd := &cobra.Command{
		Use:   "fire",
		Short: "Compute the FIRE number and years to financial independence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			req := s.conf.FireRequest()
			if cmd.Flags().Changed("spend") {
				req.AnnualSpend = spend
			}
			if cmd.Flags().Changed("swr") {
				req.SafeWithdrawalRatePct = swr
			}

			result, err := fire.NewCalculator(s.logger).Calculate(req)
			if err != nil {
				return fmt.Errorf("failed to compute FIRE figures: %w", err)
			}
			return output.Fire(cmd.OutOrStdout(), s.format, *result, s.conf.Currency)
		},
	}
	cmd.Flags().Float64Var(&spend, "spend", 0, "annual spend override")
	cmd.Flags().Float64Var(&swr, "swr", 0, "safe withdrawal rate override (percent)")
	return cmd
}

func forecastCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast",
		Short: "Fit a trend to historical net worth and extrapolate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			result, err := trend.NewForecaster(s.logger).Forecast(s.conf.TrendRequest())
			if err != nil {
				return fmt.Errorf("failed to forecast history: %w", err)
			}
			return output.Trend(cmd.OutOrStdout(), s.format, *result, s.conf.Currency)
		},
	}
}

func coachCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "coach",
		Short: "Analyze the plan and print advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			nudges, err := coach.NewEngine(s.logger).Analyze(s.conf.CoachRequest())
			if err != nil {
				return fmt.Errorf("failed to analyze plan: %w", err)
			}
			return output.Nudges(cmd.OutOrStdout(), s.format, nudges)
		},
	}
}

func validateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the plan and report configuration warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfiguration(flags.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", flags.configPath, err)
			}
			warnings := conf.ValidateConfiguration()
			if flags.outputFormat == constants.OutputFormatJSON {
				if warnings == nil {
					warnings = []string{}
				}
				return output.WriteJSON(cmd.OutOrStdout(), map[string]interface{}{"warnings": warnings})
			}
			return output.Warnings(cmd.OutOrStdout(), warnings)
		},
	}
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var serverConfigPath string
	var address string
	var maxUploadSize string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}
			if maxUploadSize != "" {
				size, err := server.ParseSize(maxUploadSize)
				if err != nil {
					return err
				}
				cfg.SetUploadSizeBytes(size)
			}

			logger, err := initializeLogger(cfg.Logging, flags.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version)
			return server.Run(ctx, cfg, handler, logger)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "request body limit override (e.g. 512K, 1M)")
	return cmd
}
