package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/txfu/pkg/config"
	"github.com/yurifrl/txfu/pkg/models"
	"github.com/yurifrl/txfu/pkg/parser"
	"github.com/yurifrl/txfu/pkg/plan"
	"github.com/yurifrl/txfu/pkg/report"
	"github.com/yurifrl/txfu/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:   "txfu-cli",
	Short: "Convert broker gain/loss exports into Form 8949 transactions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		Prefix:          "txfu-cli",
		Level:           level,
	})
	return cfg, logger, nil
}

// expand resolves a glob into the matching paths.
func expand(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching pattern %s", pattern)
	}
	return matches, nil
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <input_path>",
	Short: "Print the transactions of broker exports as Form 8949 CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		dump, _ := cmd.Flags().GetBool("dump")

		processor := NewFileProcessor(logger, &cliFilters, cfg.TaxYear)

		matches, err := expand(args[0])
		if err != nil {
			return err
		}

		for _, match := range matches {
			fileInfo, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if fileInfo.IsDir() {
				if err := processor.ProcessDirectory(match, dump); err != nil {
					logger.Warn("failed to process directory", "error", err, "dir", match)
				}
			} else {
				if err := processor.ProcessFile(match, dump); err != nil {
					logger.Warn("failed to process file", "error", err, "file", match)
				}
			}
		}
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Report which broker produced each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		p := parser.New(logger)
		for _, path := range args {
			b, err := p.Detect(path)
			switch {
			case errors.Is(err, parser.ErrUnknownBroker):
				fmt.Printf("%s: unknown\n", path)
			case err != nil:
				return err
			default:
				fmt.Printf("%s: %s\n", path, b.Name())
			}
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <input_path>",
	Short: "Total proceeds, cost and gain per Form 8949 box",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		matches, err := expand(args[0])
		if err != nil {
			return err
		}

		p := parser.New(logger)
		var all []*models.Transaction
		for _, match := range matches {
			txs, err := p.ParseFile(match, cfg.TaxYear)
			if err != nil {
				return fmt.Errorf("failed to process file %s: %w", match, err)
			}
			all = append(all, txs...)
		}
		return report.Summarize(all).Render(os.Stdout)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Preview, or with --apply convert, a YAML plan of broker exports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Plan preview for %s\n", args[0])
		p.Print(os.Stdout)

		apply, _ := cmd.Flags().GetBool("apply")
		if !apply {
			return nil
		}
		return service.NewProcessor(cfg, logger).ProcessPlan(p)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().IntP("tax-year", "y", 0, "Only keep sales from this tax year (0 keeps all)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory for converted files")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.symbol, "symbol", "", "Filter by symbol (case insensitive)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.box, "box", "", "Filter by Form 8949 box (A-F)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.term, "term", "", "Filter by holding term (short, long)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.minGain, "min-gain", "", "Minimum gain")
	rootCmd.PersistentFlags().StringVar(&cliFilters.maxGain, "max-gain", "", "Maximum gain")

	convertCmd.Flags().Bool("dump", false, "Pretty-print parsed transactions instead of CSV")
	planCmd.Flags().Bool("apply", false, "Convert every statement of the plan")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
