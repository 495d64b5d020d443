package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan lists the gain/loss exports to convert for one tax year.
type Plan struct {
	TaxYear    int         `yaml:"tax_year"`
	Statements []Statement `yaml:"statements"`
}

type Statement struct {
	// Broker is optional; when set it must match the detected broker.
	Broker   string `yaml:"broker"`
	FilePath string `yaml:"file"`
	Output   string `yaml:"output"`
}

// File returns the path to the statement file, expanding ~.
func (s *Statement) File() (string, error) {
	if strings.HasPrefix(s.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, s.FilePath[2:]), nil
	}
	return s.FilePath, nil
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(p.Statements) == 0 {
		return nil, fmt.Errorf("plan has no statements")
	}
	for i, st := range p.Statements {
		if st.FilePath == "" {
			return nil, fmt.Errorf("statement %d has no file", i+1)
		}
	}
	if p.TaxYear < 0 {
		return nil, fmt.Errorf("invalid tax_year %d", p.TaxYear)
	}
	return &p, nil
}

func (p *Plan) Print(w io.Writer) {
	fmt.Fprintf(w, "Tax year: %d\n", p.TaxYear)
	for i, st := range p.Statements {
		broker := st.Broker
		if broker == "" {
			broker = "auto"
		}
		fmt.Fprintf(w, "[%d] broker=%s file=%s\n", i+1, broker, st.FilePath)
	}
}
