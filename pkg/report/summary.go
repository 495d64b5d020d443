// Package report totals parsed transactions per Form 8949 box.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/txfu/pkg/models"
)

type Totals struct {
	Count      int
	Proceeds   decimal.Decimal
	Cost       decimal.Decimal
	Adjustment decimal.Decimal
	Gain       decimal.Decimal
}

func (t *Totals) add(tx *models.Transaction) {
	t.Count++
	t.Proceeds = t.Proceeds.Add(tx.SaleProceeds())
	t.Cost = t.Cost.Add(tx.CostBasis())
	if adj, ok := tx.Adjustment(); ok {
		t.Adjustment = t.Adjustment.Add(adj)
	}
	t.Gain = t.Gain.Add(tx.Gain())
}

type Summary struct {
	ByCode    map[models.EntryCode]*Totals
	ShortTerm Totals
	LongTerm  Totals
}

func Summarize(txs []*models.Transaction) *Summary {
	s := &Summary{ByCode: make(map[models.EntryCode]*Totals)}
	for _, tx := range txs {
		code := tx.EntryCode()
		t, ok := s.ByCode[code]
		if !ok {
			t = &Totals{}
			s.ByCode[code] = t
		}
		t.add(tx)
		if code.IsShortTerm() {
			s.ShortTerm.add(tx)
		} else {
			s.LongTerm.add(tx)
		}
	}
	return s
}

// Codes returns the entry codes present, ordered by box letter.
func (s *Summary) Codes() []models.EntryCode {
	codes := make([]models.EntryCode, 0, len(s.ByCode))
	for c := range s.ByCode {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Box() < codes[j].Box() })
	return codes
}

func (s *Summary) Render(w io.Writer) error {
	headerStyle := lipgloss.NewStyle().Bold(true)
	shortStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	longStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // green

	header := fmt.Sprintf("%-4s %-5s %6s %16s %16s %14s %16s", "Box", "Code", "Lots", "Proceeds", "Cost", "Adjustment", "Gain")
	if _, err := fmt.Fprintln(w, headerStyle.Render(header)); err != nil {
		return err
	}
	for _, code := range s.Codes() {
		style := longStyle
		if code.IsShortTerm() {
			style = shortStyle
		}
		line := formatTotals(code.Box(), fmt.Sprint(int(code)), s.ByCode[code])
		if _, err := fmt.Fprintln(w, style.Render(line)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, headerStyle.Render(formatTotals("", "short", &s.ShortTerm))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, headerStyle.Render(formatTotals("", "long", &s.LongTerm)))
	return err
}

func formatTotals(box, label string, t *Totals) string {
	return fmt.Sprintf("%-4s %-5s %6d %16s %16s %14s %16s",
		box, label, t.Count, usd(t.Proceeds), usd(t.Cost), usd(t.Adjustment), usd(t.Gain))
}

func usd(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}
