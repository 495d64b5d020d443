package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/txfu/pkg/config"
	"github.com/yurifrl/txfu/pkg/csv"
	"github.com/yurifrl/txfu/pkg/models"
	"github.com/yurifrl/txfu/pkg/parser"
	"github.com/yurifrl/txfu/pkg/plan"
)

const outputSuffix = "-8949.csv"

type Processor struct {
	config *config.Config
	logger *log.Logger
	parser *parser.Parser
}

func NewProcessor(config *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		config: config,
		logger: logger,
		parser: parser.New(logger),
	}
}

// ProcessDirectory converts every recognised export in dir. A failing file
// is logged and the next one is processed.
func (p *Processor) ProcessDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory: %w", err)
	}

	for _, entry := range entries {
		if err := p.processEntry(dir, entry); err != nil {
			p.logger.Error("failed to process entry", "file", entry.Name(), "error", err)
		}
	}

	return nil
}

func (p *Processor) processEntry(dir string, entry os.DirEntry) error {
	if entry.IsDir() {
		return nil
	}

	fileName := strings.ToLower(entry.Name())
	if !strings.HasSuffix(fileName, ".csv") || strings.HasSuffix(fileName, outputSuffix) {
		return nil
	}

	inputPath := filepath.Join(dir, entry.Name())
	_, err := p.ProcessFile(inputPath, "")
	if errors.Is(err, parser.ErrUnknownBroker) {
		p.logger.Debug("skipping unrecognised file", "path", inputPath)
		return nil
	}
	return err
}

// ProcessFile parses inputPath and writes the Form 8949 CSV. An empty
// outputPath is derived from the input name. It returns the output path.
func (p *Processor) ProcessFile(inputPath, outputPath string) (string, error) {
	broker, err := p.parser.Detect(inputPath)
	if err != nil {
		return "", err
	}
	return p.convert(broker, inputPath, outputPath)
}

// ProcessPlan converts every statement of pl, stopping at the first error.
func (p *Processor) ProcessPlan(pl *plan.Plan) error {
	taxYear := p.config.TaxYear
	if pl.TaxYear != 0 {
		taxYear = pl.TaxYear
	}
	proc := &Processor{config: &config.Config{TaxYear: taxYear, OutputDir: p.config.OutputDir}, logger: p.logger, parser: p.parser}

	for i := range pl.Statements {
		st := &pl.Statements[i]
		inputPath, err := st.File()
		if err != nil {
			return err
		}
		broker, err := proc.statementBroker(st.Broker, inputPath)
		if err != nil {
			return fmt.Errorf("statement %s: %w", st.FilePath, err)
		}
		if _, err := proc.convert(broker, inputPath, st.Output); err != nil {
			return err
		}
	}
	return nil
}

// statementBroker resolves the broker a plan statement names, or detects one
// from the file when the statement leaves it out.
func (p *Processor) statementBroker(name, inputPath string) (parser.Broker, error) {
	if name == "" {
		return p.parser.Detect(inputPath)
	}
	broker, ok := p.parser.Broker(name)
	if !ok {
		return nil, fmt.Errorf("unknown broker %q", name)
	}
	match, err := broker.IsFileForBroker(inputPath)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, fmt.Errorf("file is not an %s export", broker.Name())
	}
	return broker, nil
}

func (p *Processor) convert(broker parser.Broker, inputPath, outputPath string) (string, error) {
	p.logger.Info("processing file", "path", inputPath, "broker", broker.Name(), "tax_year", p.config.TaxYear)

	transactions, err := broker.ParseFileToTxnList(inputPath, p.config.TaxYear)
	if err != nil {
		return "", fmt.Errorf("error parsing file: %w", err)
	}

	if outputPath == "" {
		outputPath = p.determineOutputPath(inputPath)
	}
	if err := writeTransactions(outputPath, transactions); err != nil {
		return "", err
	}

	p.logger.Info("processed file successfully", "input", inputPath, "output", outputPath, "transactions", len(transactions))
	return outputPath, nil
}

func (p *Processor) determineOutputPath(inputPath string) string {
	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if p.config.GetOutputPath() != "" {
		return filepath.Join(p.config.GetOutputPath(), baseName+outputSuffix)
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + outputSuffix
}

func writeTransactions(outputPath string, transactions []*models.Transaction) error {
	data, err := csv.Create(transactions, nil)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	return nil
}
