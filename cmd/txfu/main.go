package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/txfu/pkg/config"
	"github.com/yurifrl/txfu/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "txfu",
	})

	var (
		outputPath string
		taxYear    int
	)
	flag.StringVar(&outputPath, "o", "", "Output directory (default: same as input file)")
	flag.IntVar(&taxYear, "y", 0, "Tax year to keep (default: keep every sale)")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		logger.Error("invalid usage", "args", args)
		fmt.Fprintf(os.Stderr, "Usage: txfu [-o output_dir] [-y tax_year] <directory>\n")
		os.Exit(1)
	}

	cfg := config.New(outputPath)
	cfg.TaxYear = taxYear
	processor := service.NewProcessor(cfg, logger)

	dir := args[0]
	if err := processor.ProcessDirectory(dir); err != nil {
		logger.Fatal("processing failed", "error", err)
	}
}
