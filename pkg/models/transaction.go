package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Various is shown instead of a date when a lot was bought or sold across
// several dates within the tax year.
const Various = "Various"

// Transaction is a single reconciled gain/loss lot ready for Form 8949.
// It is built once by TransactionBuilder and never changed afterwards.
type Transaction struct {
	desc         string
	costBasis    decimal.Decimal
	saleProceeds decimal.Decimal
	buyDate      time.Time
	buyDateStr   string
	sellDate     time.Time
	sellDateStr  string
	adjustment   decimal.NullDecimal
	entryCode    EntryCode
	line         int
}

func (t *Transaction) Desc() string                  { return t.desc }
func (t *Transaction) CostBasis() decimal.Decimal    { return t.costBasis }
func (t *Transaction) SaleProceeds() decimal.Decimal { return t.saleProceeds }
func (t *Transaction) BuyDate() time.Time            { return t.buyDate }
func (t *Transaction) BuyDateStr() string            { return t.buyDateStr }
func (t *Transaction) SellDate() time.Time           { return t.sellDate }
func (t *Transaction) SellDateStr() string           { return t.sellDateStr }
func (t *Transaction) EntryCode() EntryCode          { return t.entryCode }

// Line is the 1-based line of the source file the row starts on.
func (t *Transaction) Line() int { return t.line }

// Adjustment returns the wash sale disallowed loss and whether one was reported.
func (t *Transaction) Adjustment() (decimal.Decimal, bool) {
	return t.adjustment.Decimal, t.adjustment.Valid
}

// Gain is proceeds minus cost, plus the disallowed loss when present.
func (t *Transaction) Gain() decimal.Decimal {
	gain := t.saleProceeds.Sub(t.costBasis)
	if t.adjustment.Valid {
		gain = gain.Add(t.adjustment.Decimal)
	}
	return gain
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s | %s | %s | cost %s | proceeds %s | %s",
		t.desc, t.buyDateStr, t.sellDateStr, t.costBasis.StringFixed(2), t.saleProceeds.StringFixed(2), t.entryCode)
}

// TransactionBuilder accumulates the fields of a Transaction.
type TransactionBuilder struct {
	tx      Transaction
	hasBuy  bool
	hasSell bool
}

func NewTransaction(desc string) *TransactionBuilder {
	return &TransactionBuilder{tx: Transaction{desc: desc}}
}

func (b *TransactionBuilder) SetCostBasis(d decimal.Decimal) *TransactionBuilder {
	b.tx.costBasis = d
	return b
}

func (b *TransactionBuilder) SetSaleProceeds(d decimal.Decimal) *TransactionBuilder {
	b.tx.saleProceeds = d
	return b
}

// SetAdjustment records a wash sale disallowed loss.
func (b *TransactionBuilder) SetAdjustment(d decimal.Decimal) *TransactionBuilder {
	b.tx.adjustment = decimal.NewNullDecimal(d)
	return b
}

func (b *TransactionBuilder) SetBuyDate(t time.Time) *TransactionBuilder {
	b.tx.buyDate = t
	b.tx.buyDateStr = TxfDate(t)
	b.hasBuy = true
	return b
}

// SetBuyDateVarious anchors the buy date to January 1st of year.
func (b *TransactionBuilder) SetBuyDateVarious(year int) *TransactionBuilder {
	b.tx.buyDate = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	b.tx.buyDateStr = Various
	b.hasBuy = true
	return b
}

func (b *TransactionBuilder) SetSellDate(t time.Time) *TransactionBuilder {
	b.tx.sellDate = t
	b.tx.sellDateStr = TxfDate(t)
	b.hasSell = true
	return b
}

// SetSellDateVarious anchors the sell date to December 31st of year.
func (b *TransactionBuilder) SetSellDateVarious(year int) *TransactionBuilder {
	b.tx.sellDate = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	b.tx.sellDateStr = Various
	b.hasSell = true
	return b
}

func (b *TransactionBuilder) SetEntryCode(c EntryCode) *TransactionBuilder {
	b.tx.entryCode = c
	return b
}

func (b *TransactionBuilder) SetLineNumber(line int) *TransactionBuilder {
	b.tx.line = line
	return b
}

func (b *TransactionBuilder) Build() (*Transaction, error) {
	if b.tx.desc == "" {
		return nil, errors.New("transaction description is required")
	}
	if !b.hasBuy {
		return nil, fmt.Errorf("transaction %q: buy date is required", b.tx.desc)
	}
	if !b.hasSell {
		return nil, fmt.Errorf("transaction %q: sell date is required", b.tx.desc)
	}
	if !b.tx.entryCode.Valid() {
		return nil, fmt.Errorf("transaction %q: invalid entry code %d", b.tx.desc, int(b.tx.entryCode))
	}
	tx := b.tx
	return &tx, nil
}
