package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/NgigiN/wallet/internal/analyzer"
)

func record(id int64, date analyzer.Date, amount int64, typ analyzer.Type, desc, merchant string) *analyzer.Transaction {
	return &analyzer.Transaction{
		ID:          analyzer.IntID(id),
		Date:        date,
		Amount:      decimal.NewFromInt(amount),
		Type:        typ,
		Description: desc,
		Merchant:    merchant,
	}
}

func TestWrite(t *testing.T) {
	e := analyzer.New([]*analyzer.Transaction{
		record(1, analyzer.NewDate(2019, 1, 1), 100, analyzer.Debit, "Groceries", "SuperMart123"),
		record(19, analyzer.NewDate(2019, 4, 25), 50, analyzer.Debit, "Concert", "EntertainmentStoreABC"),
		record(2, analyzer.NewDate(2019, 4, 25), 30, analyzer.Credit, "Bonus", "CompanyXYZ"),
		record(3, analyzer.NewDate(2019, 5, 2), 10, analyzer.Credit, "Cashback", "Bank"),
	})

	var buf bytes.Buffer
	if err := Write(&buf, e, Options{Today: analyzer.NewDate(2019, 6, 1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Unique credit transactions (2):",
		"Total amount: 190.00",
		"Total amount on 2019-04-25: 80.00",
		"Transactions from 2019-04-30 to 2019-06-01 (1):",
		"Transactions at EntertainmentStoreABC (1):",
		"Average amount: 47.50",
		"Transactions between 95 and 40 (0):",
		"Total debit amount: 150.00",
		"Most active month: 4",
		"Most active debit month: [1 4]",
		"Dominant type: equal",
		"Transactions before 2019-01-31 (1):",
		`Transaction 19: {"transaction_id":19,`,
		"Descriptions: Groceries; Concert; Bonus; Cashback",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, analyzer.New(nil), Options{Today: analyzer.NewDate(2024, 1, 1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"First debit transaction: not found",
		"Average amount: n/a (no transactions)",
		"Most active month: []",
		"Transaction 19: not found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}
