// Package report prints the standard sequence of analyzer queries.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NgigiN/wallet/internal/analyzer"
)

type Options struct {
	// Today closes the open-ended date range query.
	Today analyzer.Date
}

type writer struct {
	w   io.Writer
	err error
}

// Write memoizes serialized forms and then prints every query result to w.
func Write(w io.Writer, e *analyzer.Engine, opts Options) error {
	if err := e.MemoizeSerialized(); err != nil {
		return err
	}

	out := &writer{w: w}
	out.records("Unique credit transactions", e.UniqueByType(analyzer.Credit))
	out.line("Total amount", e.TotalAmount().StringFixed(2))
	out.line("Total amount on 2019-04-25", e.TotalAmountOnDate(2019, 4, 25).StringFixed(2))
	firstDebit, ok := e.FirstByType(analyzer.Debit)
	out.record("First debit transaction", firstDebit, ok)
	out.records(fmt.Sprintf("Transactions from 2019-04-30 to %s", opts.Today), e.InDateRange(analyzer.NewDate(2019, 4, 30), opts.Today))
	out.records("Transactions at EntertainmentStoreABC", e.ByMerchant("EntertainmentStoreABC"))

	avg, err := e.AverageAmount()
	switch {
	case errors.Is(err, analyzer.ErrEmptyCollection):
		out.line("Average amount", "n/a (no transactions)")
	case err != nil:
		return err
	default:
		out.line("Average amount", avg.StringFixed(2))
	}

	out.records("Transactions between 95 and 40", e.ByAmountRange(decimal.NewFromInt(95), decimal.NewFromInt(40)))
	out.line("Total debit amount", e.TotalDebitAmount().StringFixed(2))
	out.line("Most active month", e.MostActiveMonth().String())
	out.line("Most active debit month", e.MostActiveDebitMonth().String())
	out.line("Dominant type", string(e.DominantType()))
	out.records("Transactions before 2019-01-31", e.BeforeDate(analyzer.NewDate(2019, 1, 31)))
	byID, ok := e.FindByID(analyzer.IntID(19))
	out.record("Transaction 19", byID, ok)
	out.line("Descriptions", strings.Join(e.Descriptions(), "; "))
	return out.err
}

func (o *writer) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *writer) line(label, value string) {
	o.printf("%s: %s\n", label, value)
}

func (o *writer) record(label string, tx *analyzer.Transaction, ok bool) {
	if !ok {
		o.line(label, "not found")
		return
	}
	o.line(label, tx.String())
}

func (o *writer) records(label string, txs []*analyzer.Transaction) {
	o.printf("%s (%d):\n", label, len(txs))
	for _, tx := range txs {
		o.printf("  %s\n", tx)
	}
}
