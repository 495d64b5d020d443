package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/txfu/pkg/models"
)

var (
	ErrUnknownBroker         = errors.New("no broker recognises this file")
	ErrColumnCount           = errors.New("column count does not match header")
	ErrMissingColumn         = errors.New("missing column")
	ErrUnknownEntryCode      = errors.New("unrecognised form 8949 box")
	ErrVariousWithoutTaxYear = errors.New("'Various' date needs a tax year")
)

// RowError ties a row failure to its line in the source file.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Broker is implemented by every supported gain/loss export format.
type Broker interface {
	Name() string
	// IsFileForBroker reports whether the file carries this broker's header.
	// A foreign file is not an error.
	IsFileForBroker(path string) (bool, error)
	// ParseFileToTxnList parses every row. A taxYear of 0 disables the
	// tax year filter.
	ParseFileToTxnList(path string, taxYear int) ([]*models.Transaction, error)
}

type Parser struct {
	logger  *log.Logger
	brokers []Broker
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
		brokers: []Broker{
			NewApexCrypto(logger),
		},
	}
}

func (p *Parser) Brokers() []Broker {
	return p.brokers
}

// Broker looks a registered broker up by name, ignoring case.
func (p *Parser) Broker(name string) (Broker, bool) {
	for _, b := range p.brokers {
		if strings.EqualFold(b.Name(), name) {
			return b, true
		}
	}
	return nil, false
}

// Detect returns the first broker whose header signature matches path.
func (p *Parser) Detect(path string) (Broker, error) {
	for _, b := range p.brokers {
		ok, err := b.IsFileForBroker(path)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s for %s: %w", path, b.Name(), err)
		}
		if ok {
			p.logger.Debug("detected broker", "broker", b.Name(), "file", path)
			return b, nil
		}
	}
	p.logger.Debug("unknown file type", "file", path)
	return nil, ErrUnknownBroker
}

func (p *Parser) ParseFile(path string, taxYear int) ([]*models.Transaction, error) {
	b, err := p.Detect(path)
	if err != nil {
		return nil, err
	}
	return b.ParseFileToTxnList(path, taxYear)
}
