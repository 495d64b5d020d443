package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const sampleFile = "../../pkg/parser/testdata/apex_crypto_2023.csv"

func TestProcessFileFilters(t *testing.T) {
	cases := []struct {
		name    string
		filters filters
		want    []string
		skip    []string
	}{
		{"none", filters{}, []string{"BTC", "ETH", "DOGE"}, nil},
		{"symbol", filters{symbol: "eth"}, []string{"ETH"}, []string{"BTC", "DOGE"}},
		{"box", filters{box: "f"}, []string{"DOGE"}, []string{"BTC", "ETH"}},
		{"long term", filters{term: "long"}, []string{"DOGE"}, []string{"BTC", "ETH"}},
		{"short term", filters{term: "short"}, []string{"BTC", "ETH"}, []string{"DOGE"}},
		{"min gain", filters{minGain: "0"}, []string{"BTC", "ETH"}, []string{"DOGE"}},
		{"max gain", filters{maxGain: "-1"}, []string{"DOGE"}, []string{"BTC", "ETH"}},
	}

	for _, tc := range cases {
		var out bytes.Buffer
		p := NewFileProcessor(log.New(&bytes.Buffer{}), &tc.filters, 2023)
		p.out = &out

		if err := p.ProcessFile(sampleFile, false); err != nil {
			t.Fatalf("%s: ProcessFile failed: %v", tc.name, err)
		}
		for _, s := range tc.want {
			if !strings.Contains(out.String(), s) {
				t.Errorf("%s: expected %s in output:\n%s", tc.name, s, out.String())
			}
		}
		for _, s := range tc.skip {
			if strings.Contains(out.String(), s) {
				t.Errorf("%s: did not expect %s in output:\n%s", tc.name, s, out.String())
			}
		}
	}
}

func TestInvalidFilters(t *testing.T) {
	for _, f := range []filters{{term: "medium"}, {minGain: "lots"}, {maxGain: "$5"}} {
		if _, err := f.toFilterFunc(); err == nil {
			t.Errorf("expected error for %+v", f)
		}
	}
}

func TestProcessFileDump(t *testing.T) {
	var out bytes.Buffer
	p := NewFileProcessor(log.New(&bytes.Buffer{}), &filters{symbol: "BTC"}, 2023)
	p.out = &out

	if err := p.ProcessFile(sampleFile, true); err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if !strings.Contains(out.String(), "0.015 BTC") || strings.Contains(out.String(), "DOGE") {
		t.Errorf("unexpected dump:\n%s", out.String())
	}
}
