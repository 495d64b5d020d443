package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestBuildFromFile(t *testing.T) {
	path := writeConfig(t, "tax_year: 2023\nlog_level: debug\noutput_dir: /tmp/out\n")

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.TaxYear != 2023 || cfg.LogLevel != "debug" || cfg.GetOutputPath() != "/tmp/out" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestBuildPrecedence(t *testing.T) {
	path := writeConfig(t, "tax_year: 2023\nlog_level: debug\n")
	t.Setenv("TXFU_TAX_YEAR", "2022")
	t.Setenv("TXFU_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("tax-year", 0, "")
	flags.String("log-level", "info", "")
	flags.String("output", "", "")
	if err := flags.Parse([]string{"--tax-year", "2021"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build(path, flags)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.TaxYear != 2021 {
		t.Errorf("flag should win, got tax year %d", cfg.TaxYear)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env should beat the config file, got log level %q", cfg.LogLevel)
	}
}

func TestBuildDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build without a config file failed: %v", err)
	}
	if cfg.TaxYear != 0 || cfg.LogLevel != "info" || cfg.OutputDir != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
	if _, err := Build(writeConfig(t, "tax_year: -1\n"), nil); err == nil {
		t.Error("expected error for a negative tax year")
	}
}
