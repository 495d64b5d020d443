package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildTransaction(t *testing.T) {
	buy := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	sell := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	tx, err := NewTransaction("2.5 BTC").
		SetCostBasis(decimal.RequireFromString("100.00")).
		SetSaleProceeds(decimal.RequireFromString("150.00")).
		SetBuyDate(buy).
		SetSellDate(sell).
		SetEntryCode(ShortTermNotReported).
		SetLineNumber(2).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if tx.BuyDateStr() != "01/10/2023" || tx.SellDateStr() != "06/01/2023" {
		t.Errorf("unexpected date strings: %q %q", tx.BuyDateStr(), tx.SellDateStr())
	}
	if _, ok := tx.Adjustment(); ok {
		t.Errorf("expected no adjustment")
	}
	if !tx.Gain().Equal(decimal.RequireFromString("50")) {
		t.Errorf("expected gain 50, got %s", tx.Gain())
	}
	if tx.Line() != 2 {
		t.Errorf("expected line 2, got %d", tx.Line())
	}
}

func TestBuildTransactionWithAdjustment(t *testing.T) {
	tx, err := NewTransaction("1 ETH").
		SetCostBasis(decimal.RequireFromString("200")).
		SetSaleProceeds(decimal.RequireFromString("150")).
		SetAdjustment(decimal.RequireFromString("30")).
		SetBuyDateVarious(2023).
		SetSellDateVarious(2023).
		SetEntryCode(ShortTermCovered).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	adj, ok := tx.Adjustment()
	if !ok || !adj.Equal(decimal.RequireFromString("30")) {
		t.Errorf("expected adjustment 30, got %s (present=%v)", adj, ok)
	}
	if !tx.Gain().Equal(decimal.RequireFromString("-20")) {
		t.Errorf("expected gain -20, got %s", tx.Gain())
	}
	if tx.BuyDateStr() != Various || !tx.BuyDate().Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected various buy date: %s %v", tx.BuyDateStr(), tx.BuyDate())
	}
	if tx.SellDateStr() != Various || !tx.SellDate().Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected various sell date: %s %v", tx.SellDateStr(), tx.SellDate())
	}
}

func TestBuildTransactionMissingFields(t *testing.T) {
	now := time.Now()
	if _, err := NewTransaction("").SetBuyDate(now).SetSellDate(now).SetEntryCode(LongTermCovered).Build(); err == nil {
		t.Error("expected error for empty description")
	}
	if _, err := NewTransaction("x").SetSellDate(now).SetEntryCode(LongTermCovered).Build(); err == nil {
		t.Error("expected error for missing buy date")
	}
	if _, err := NewTransaction("x").SetBuyDate(now).SetEntryCode(LongTermCovered).Build(); err == nil {
		t.Error("expected error for missing sell date")
	}
	if _, err := NewTransaction("x").SetBuyDate(now).SetSellDate(now).Build(); err == nil {
		t.Error("expected error for missing entry code")
	}
}

func TestEntryCodeForBox(t *testing.T) {
	want := map[string]EntryCode{
		"A": 321, "b": 711, "C": 712, "d": 323, "E": 713, "F": 714,
		"c (noncovered)": 712,
	}
	for box, code := range want {
		got, ok := EntryCodeForBox(box)
		if !ok || got != code {
			t.Errorf("EntryCodeForBox(%q) = %d, %v; want %d", box, got, ok, code)
		}
	}
	for _, box := range []string{"", "G", "1", " A"} {
		if _, ok := EntryCodeForBox(box); ok {
			t.Errorf("EntryCodeForBox(%q) should fail", box)
		}
	}
}

func TestEntryCodeTerm(t *testing.T) {
	if !ShortTermNotReported.IsShortTerm() || LongTermCovered.IsShortTerm() {
		t.Error("unexpected term classification")
	}
	if ShortTermNoncovered.Box() != "B" || LongTermNotReported.Box() != "F" {
		t.Error("unexpected box letters")
	}
	if EntryCode(999).Valid() {
		t.Error("999 should not be a valid entry code")
	}
}

func TestHeldShortTerm(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	if !HeldShortTerm(day(2022, 3, 1), day(2023, 3, 1)) {
		t.Error("exactly one year should be short-term")
	}
	if HeldShortTerm(day(2022, 3, 1), day(2023, 3, 2)) {
		t.Error("one year and a day should be long-term")
	}
	// 13 months has a zero "years" component in a naive diff.
	if HeldShortTerm(day(2022, 1, 15), day(2023, 2, 15)) {
		t.Error("13 months should be long-term")
	}
	if !HeldShortTerm(day(2024, 2, 29), day(2025, 2, 28)) {
		t.Error("leap day purchase sold the following Feb 28 should be short-term")
	}
}
