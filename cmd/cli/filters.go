package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/txfu/pkg/csv"
	"github.com/yurifrl/txfu/pkg/models"
	"github.com/yurifrl/txfu/pkg/parser"
)

type filters struct {
	symbol  string
	box     string
	term    string
	minGain string
	maxGain string
}

type FileProcessor struct {
	logger  *log.Logger
	parser  *parser.Parser
	filters *filters
	taxYear int
	out     io.Writer
}

func (f *filters) toFilterFunc() (csv.FilterFunc[*models.Transaction], error) {
	var minGain, maxGain *decimal.Decimal
	if f.minGain != "" {
		d, err := decimal.NewFromString(f.minGain)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-gain: %w", err)
		}
		minGain = &d
	}
	if f.maxGain != "" {
		d, err := decimal.NewFromString(f.maxGain)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-gain: %w", err)
		}
		maxGain = &d
	}
	switch f.term {
	case "", "short", "long":
	default:
		return nil, fmt.Errorf("invalid --term %q: want short or long", f.term)
	}

	return func(t *models.Transaction) bool {
		if f.symbol != "" {
			fields := strings.Fields(t.Desc())
			if len(fields) == 0 || !strings.EqualFold(fields[len(fields)-1], f.symbol) {
				return false
			}
		}
		if f.box != "" && !strings.EqualFold(t.EntryCode().Box(), f.box) {
			return false
		}
		if f.term == "short" && !t.EntryCode().IsShortTerm() {
			return false
		}
		if f.term == "long" && t.EntryCode().IsShortTerm() {
			return false
		}
		if minGain != nil && t.Gain().LessThan(*minGain) {
			return false
		}
		if maxGain != nil && t.Gain().GreaterThan(*maxGain) {
			return false
		}
		return true
	}, nil
}

func NewFileProcessor(logger *log.Logger, filters *filters, taxYear int) *FileProcessor {
	return &FileProcessor{
		logger:  logger,
		parser:  parser.New(logger),
		filters: filters,
		taxYear: taxYear,
		out:     os.Stdout,
	}
}

func (p *FileProcessor) ProcessDirectory(inputDir string, dump bool) error {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		if err := p.ProcessFile(filepath.Join(inputDir, entry.Name()), dump); err != nil {
			p.logger.Warn("error processing file", "error", err)
		}
	}

	return nil
}

// ProcessFile prints the filtered transactions of inputPath as CSV, or as a
// pretty-printed dump when dump is set.
func (p *FileProcessor) ProcessFile(inputPath string, dump bool) error {
	transactions, err := p.parser.ParseFile(inputPath, p.taxYear)
	if err != nil {
		return fmt.Errorf("failed to process file %s: %w", inputPath, err)
	}

	filter, err := p.filters.toFilterFunc()
	if err != nil {
		return err
	}

	if dump {
		var kept []*models.Transaction
		for _, tx := range transactions {
			if filter(tx) {
				kept = append(kept, tx)
			}
		}
		printer := pp.New()
		printer.SetOutput(p.out)
		printer.SetExportedOnly(false)
		printer.SetColoringEnabled(false)
		_, err := printer.Println(kept)
		return err
	}

	outputBytes, err := csv.Create(transactions, filter)
	if err != nil {
		return err
	}
	_, err = p.out.Write(outputBytes)
	return err
}
