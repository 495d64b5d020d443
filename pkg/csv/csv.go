package csv

import (
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/txfu/pkg/models"
)

// Record is what a Form 8949 line needs from a parsed transaction.
type Record interface {
	Desc() string
	BuyDateStr() string
	SellDateStr() string
	CostBasis() decimal.Decimal
	SaleProceeds() decimal.Decimal
	Adjustment() (decimal.Decimal, bool)
	Gain() decimal.Decimal
	EntryCode() models.EntryCode
}

type FilterFunc[T Record] func(T) bool

type form8949Row struct {
	Description string `csv:"Description"`
	Acquired    string `csv:"Acquired"`
	Sold        string `csv:"Sold"`
	Proceeds    string `csv:"Proceeds"`
	Cost        string `csv:"Cost"`
	Adjustment  string `csv:"Adjustment"`
	Gain        string `csv:"Gain"`
	Box         string `csv:"Box"`
	EntryCode   int    `csv:"EntryCode"`
}

// Create renders records as Form 8949 style CSV, header included.
func Create[T Record](records []T, filter FilterFunc[T]) ([]byte, error) {
	rows := make([]form8949Row, 0, len(records))
	for _, r := range records {
		if filter != nil && !filter(r) {
			continue
		}
		adjustment := ""
		if adj, ok := r.Adjustment(); ok {
			adjustment = adj.StringFixed(2)
		}
		rows = append(rows, form8949Row{
			Description: r.Desc(),
			Acquired:    r.BuyDateStr(),
			Sold:        r.SellDateStr(),
			Proceeds:    r.SaleProceeds().StringFixed(2),
			Cost:        r.CostBasis().StringFixed(2),
			Adjustment:  adjustment,
			Gain:        r.Gain().StringFixed(2),
			Box:         r.EntryCode().Box(),
			EntryCode:   int(r.EntryCode()),
		})
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return out, nil
}
