package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/txfu/pkg/models"
)

// apexCryptoHeader is the exact first line of an Apex Crypto (via Titan)
// realized gain/loss export.
const apexCryptoHeader = "ACCOUNT_ID,TAX_YEAR,SUBLOT_ID,SECNO,CUSIP,SYMBOL,SEC_DESCR,SEC_TYPE,SEC_SUBTYPE," +
	"SUBACCOUNT_TYPE,OPEN_TRAN_ID,CLOSE_TRAN_ID-SEQNO,OPEN_DATE,CLOSE_DATE,CLOSE_EVENT,DISPOSAL_METHOD," +
	"QUANTITY,LONG_SHORT_IND,NO_WS_COST,NO_WS_PROCEEDS,NO_WS_GAINLOSS,WS_COST_ADJ,WS_PROC_ADJ," +
	"WS_LOSS_ID-SEQNO,1099_ACQ_DATE,1099_DISP_DATE,1099_COST,1099_PROCEEDS,GROSS_NET_IND,TOTAL_GAINLOSS," +
	"ORDINARY_GAINLOSS,1099_DISALLOWED_LOSS,1099_MARKET_DISCOUNT,8949_GAINLOSS,8949_CODE,HOLDING_DATE," +
	"TERM,COVERED_IND,8949_BOX,1099_1256_CY_REALIZED,1099_1256_PY_UNREALIZED,1099_1256_CY_UNREALIZED," +
	"1099_1256_AGGREGATE\n"

const (
	colSymbol         = "SYMBOL"
	colQuantity       = "QUANTITY"
	colOpenDate       = "OPEN_DATE"
	colCloseDate      = "CLOSE_DATE"
	colCost           = "1099_COST"
	colProceeds       = "1099_PROCEEDS"
	colDisallowedLoss = "1099_DISALLOWED_LOSS"
	colBox            = "8949_BOX"
)

// ApexCrypto parses Apex Crypto gain/loss exports. Every row is an already
// reconciled buy/sell pair.
type ApexCrypto struct {
	logger *log.Logger
}

func NewApexCrypto(logger *log.Logger) *ApexCrypto {
	return &ApexCrypto{logger: logger}
}

func (a *ApexCrypto) Name() string { return "Apex Crypto" }

func (a *ApexCrypto) IsFileForBroker(path string) (bool, error) {
	first, err := readFirstLine(path)
	if err != nil {
		return false, err
	}
	return first == apexCryptoHeader, nil
}

// WashSaleDisallowedAmount returns the disallowed loss, or false when the
// export reports "$0.00".
func (a *ApexCrypto) WashSaleDisallowedAmount(row RawRow) (decimal.Decimal, bool, error) {
	v, err := row.Get(colDisallowedLoss)
	if err != nil {
		return decimal.Zero, false, err
	}
	v = strings.TrimSpace(v)
	if v == "$0.00" {
		return decimal.Zero, false, nil
	}
	d, err := ParseAmount(v)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%s: %w", colDisallowedLoss, err)
	}
	return d, true, nil
}

func (a *ApexCrypto) BuyDate(row RawRow) (time.Time, error) {
	return dateColumn(row, colOpenDate)
}

func (a *ApexCrypto) SellDate(row RawRow) (time.Time, error) {
	return dateColumn(row, colCloseDate)
}

// IsShortTerm reports whether the lot was held one year or less.
func (a *ApexCrypto) IsShortTerm(row RawRow) (bool, error) {
	buy, err := a.BuyDate(row)
	if err != nil {
		return false, err
	}
	sell, err := a.SellDate(row)
	if err != nil {
		return false, err
	}
	return models.HeldShortTerm(buy, sell), nil
}

func (a *ApexCrypto) Symbol(row RawRow) (string, error) {
	return row.Get(colSymbol)
}

func (a *ApexCrypto) NumShares(row RawRow) (decimal.Decimal, error) {
	v, err := row.Get(colQuantity)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid quantity %q: %w", colQuantity, v, err)
	}
	return d, nil
}

func (a *ApexCrypto) CostBasis(row RawRow) (decimal.Decimal, error) {
	return amountColumn(row, colCost)
}

func (a *ApexCrypto) SaleProceeds(row RawRow) (decimal.Decimal, error) {
	return amountColumn(row, colProceeds)
}

// EntryCode maps the 8949_BOX column, which the export fills in for us.
func (a *ApexCrypto) EntryCode(row RawRow) (models.EntryCode, error) {
	v, err := row.Get(colBox)
	if err != nil {
		return 0, err
	}
	code, ok := models.EntryCodeForBox(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntryCode, v)
	}
	return code, nil
}

func (a *ApexCrypto) ParseFileToTxnList(path string, taxYear int) ([]*models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // checked per row against the header

	var (
		names   []string
		txs     []*models.Transaction
		records int
		next    int // source line the next record should start on
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		records++
		line, _ := reader.FieldPos(0)
		if records > 1 && line > next {
			// encoding/csv skips blank lines; the export never has them.
			return nil, &RowError{Line: next, Err: fmt.Errorf("%w: blank line", ErrColumnCount)}
		}
		last := len(record) - 1
		endLine, _ := reader.FieldPos(last)
		next = endLine + strings.Count(record[last], "\n") + 1

		if records == 1 {
			names = record
			continue
		}

		tx, err := a.parseRow(names, record, line, taxYear)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		if taxYear != 0 && tx.SellDate().Year() != taxYear {
			a.logger.Warnf("ignoring txn: \"%s\" (line %d) as the sale is not from %d", tx.Desc(), line, taxYear)
			continue
		}

		a.logger.Debug("parsed transaction", "line", line, "desc", tx.Desc(), "entry_code", int(tx.EntryCode()))
		txs = append(txs, tx)
	}

	a.logger.Info("Apex Crypto parsing complete", "file", path, "total_transactions", len(txs), "total_records", records)
	return txs, nil
}

func (a *ApexCrypto) parseRow(names, record []string, line, taxYear int) (*models.Transaction, error) {
	row, err := newRawRow(names, record)
	if err != nil {
		return nil, err
	}

	adjustment, hasAdjustment, err := a.WashSaleDisallowedAmount(row)
	if err != nil {
		return nil, err
	}
	// the description keeps the export's quantity digits, e.g. "0.50000000"
	if _, err := a.NumShares(row); err != nil {
		return nil, err
	}
	quantity, err := row.Get(colQuantity)
	if err != nil {
		return nil, err
	}
	symbol, err := a.Symbol(row)
	if err != nil {
		return nil, err
	}

	b := models.NewTransaction(fmt.Sprintf("%s %s", quantity, symbol)).SetLineNumber(line)
	if hasAdjustment {
		b.SetAdjustment(adjustment)
	}

	cost, err := a.CostBasis(row)
	if err != nil {
		return nil, err
	}
	b.SetCostBasis(cost)

	buyVarious, err := isVarious(row, colOpenDate)
	if err != nil {
		return nil, err
	}
	var buy time.Time
	if buyVarious {
		if taxYear == 0 {
			return nil, fmt.Errorf("%s: %w", colOpenDate, ErrVariousWithoutTaxYear)
		}
		b.SetBuyDateVarious(taxYear)
	} else {
		if buy, err = a.BuyDate(row); err != nil {
			return nil, err
		}
		b.SetBuyDate(buy)
	}

	proceeds, err := a.SaleProceeds(row)
	if err != nil {
		return nil, err
	}
	b.SetSaleProceeds(proceeds)

	sellVarious, err := isVarious(row, colCloseDate)
	if err != nil {
		return nil, err
	}
	var sell time.Time
	if sellVarious {
		if taxYear == 0 {
			return nil, fmt.Errorf("%s: %w", colCloseDate, ErrVariousWithoutTaxYear)
		}
		b.SetSellDateVarious(taxYear)
	} else {
		if sell, err = a.SellDate(row); err != nil {
			return nil, err
		}
		b.SetSellDate(sell)
	}

	code, err := a.EntryCode(row)
	if err != nil {
		return nil, err
	}
	b.SetEntryCode(code)

	if !buyVarious && !sellVarious {
		short, err := a.IsShortTerm(row)
		if err != nil {
			return nil, err
		}
		if short != code.IsShortTerm() {
			a.logger.Warn("holding period disagrees with form 8949 box", "line", line, "box", code.Box(), "short_term", short)
		}
	}

	return b.Build()
}

func isVarious(row RawRow, column string) (bool, error) {
	v, err := row.Get(column)
	if err != nil {
		return false, err
	}
	return v == models.Various, nil
}

func dateColumn(row RawRow, column string) (time.Time, error) {
	v, err := row.Get(column)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseISODate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", column, err)
	}
	return t, nil
}

func amountColumn(row RawRow, column string) (decimal.Decimal, error) {
	v, err := row.Get(column)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := ParseAmount(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", column, err)
	}
	return d, nil
}
