// Package analyzer answers aggregate and filter queries over an in-memory,
// insertion-ordered collection of transactions.
package analyzer

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Engine owns the transaction collection. Every query returns a freshly
// allocated slice; the *Transaction elements are shared with the engine.
type Engine struct {
	mu           sync.RWMutex
	transactions []*Transaction
}

// ActiveMonths lists, in ascending order, every month (1-12) tied for the
// highest transaction count.
type ActiveMonths []int

func New(records []*Transaction) *Engine {
	txs := make([]*Transaction, len(records))
	copy(txs, records)
	return &Engine{transactions: txs}
}

// Append adds tx to the end of the collection. It is never persisted.
func (e *Engine) Append(tx *Transaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transactions = append(e.transactions, tx)
}

// MemoizeSerialized caches the JSON form of every record that has none yet.
func (e *Engine) MemoizeSerialized() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, tx := range e.transactions {
		if err := tx.memoize(); err != nil {
			return fmt.Errorf("serialize transaction %d: %w", i, err)
		}
	}
	return nil
}

func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.transactions)
}

func (e *Engine) All() []*Transaction {
	return e.filter(func(*Transaction) bool { return true })
}

// UniqueByType returns the records of type t, dropping repeats of the same
// record instance. Distinct records with equal fields are all kept.
func (e *Engine) UniqueByType(t Type) []*Transaction {
	seen := make(map[*Transaction]struct{})
	return e.filter(func(tx *Transaction) bool {
		if tx.Type != t {
			return false
		}
		if _, ok := seen[tx]; ok {
			return false
		}
		seen[tx] = struct{}{}
		return true
	})
}

func (e *Engine) TotalAmount() decimal.Decimal {
	return e.sum(func(*Transaction) bool { return true })
}

// TotalAmountOnDate sums the records dated year-month-day. The date is
// normalized first, so day 31 of a 30-day month means the 1st of the next.
func (e *Engine) TotalAmountOnDate(year, month, day int) decimal.Decimal {
	target := NewDate(year, month, day)
	return e.sum(func(tx *Transaction) bool { return tx.Date.SameDay(target) })
}

func (e *Engine) TotalDebitAmount() decimal.Decimal {
	return e.sum(func(tx *Transaction) bool { return tx.Type == Debit })
}

func (e *Engine) TotalCreditAmount() decimal.Decimal {
	return e.sum(func(tx *Transaction) bool { return tx.Type == Credit })
}

// AverageAmount fails with ErrEmptyCollection when there is nothing to average.
// The sum and the count come from the same snapshot.
func (e *Engine) AverageAmount() (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.transactions) == 0 {
		return decimal.Zero, ErrEmptyCollection
	}
	total := decimal.Zero
	for _, tx := range e.transactions {
		total = total.Add(tx.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(e.transactions)))), nil
}

// FirstByType returns the first record of type t; ok is false when none exists.
func (e *Engine) FirstByType(t Type) (*Transaction, bool) {
	return e.first(func(tx *Transaction) bool { return tx.Type == t })
}

// FindByID returns the first record whose ID loosely equals id.
func (e *Engine) FindByID(id ID) (*Transaction, bool) {
	return e.first(func(tx *Transaction) bool { return tx.ID.Equal(id) })
}

// InDateRange returns the records dated within [start, end].
func (e *Engine) InDateRange(start, end Date) []*Transaction {
	return e.filter(func(tx *Transaction) bool {
		return !tx.Date.Before(start) && !tx.Date.After(end)
	})
}

// BeforeDate returns the records dated strictly before d.
func (e *Engine) BeforeDate(d Date) []*Transaction {
	return e.filter(func(tx *Transaction) bool { return tx.Date.Before(d) })
}

func (e *Engine) ByMerchant(name string) []*Transaction {
	return e.filter(func(tx *Transaction) bool { return tx.Merchant == name })
}

// ByAmountRange keeps minAmount <= amount <= maxAmount as written, so an
// inverted range matches nothing.
func (e *Engine) ByAmountRange(minAmount, maxAmount decimal.Decimal) []*Transaction {
	return e.filter(func(tx *Transaction) bool {
		return tx.Amount.GreaterThanOrEqual(minAmount) && tx.Amount.LessThanOrEqual(maxAmount)
	})
}

func (e *Engine) MostActiveMonth() ActiveMonths {
	return MostActiveMonthOf(e.All())
}

func (e *Engine) MostActiveDebitMonth() ActiveMonths {
	return MostActiveMonthOf(e.filter(func(tx *Transaction) bool { return tx.Type == Debit }))
}

func (e *Engine) DominantType() Dominance {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var debits, credits int
	for _, tx := range e.transactions {
		switch tx.Type {
		case Debit:
			debits++
		case Credit:
			credits++
		}
	}
	switch {
	case debits > credits:
		return DominanceDebit
	case credits > debits:
		return DominanceCredit
	default:
		return DominanceEqual
	}
}

func (e *Engine) Descriptions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.transactions))
	for _, tx := range e.transactions {
		out = append(out, tx.Description)
	}
	return out
}

// MostActiveMonthOf groups txs by calendar month, ignoring the year.
func MostActiveMonthOf(txs []*Transaction) ActiveMonths {
	var counts [13]int
	top := 0
	for _, tx := range txs {
		m := int(tx.Date.Month())
		counts[m]++
		if counts[m] > top {
			top = counts[m]
		}
	}
	months := ActiveMonths{}
	if top == 0 {
		return months
	}
	for m := 1; m <= 12; m++ {
		if counts[m] == top {
			months = append(months, m)
		}
	}
	return months
}

// Single returns the month when exactly one month holds the maximum.
func (m ActiveMonths) Single() (int, bool) {
	if len(m) != 1 {
		return 0, false
	}
	return m[0], true
}

func (m ActiveMonths) String() string {
	if month, ok := m.Single(); ok {
		return fmt.Sprint(month)
	}
	return fmt.Sprint([]int(m))
}

func (e *Engine) filter(keep func(*Transaction) bool) []*Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Transaction, 0)
	for _, tx := range e.transactions {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func (e *Engine) first(match func(*Transaction) bool) (*Transaction, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, tx := range e.transactions {
		if match(tx) {
			return tx, true
		}
	}
	return nil, false
}

func (e *Engine) sum(keep func(*Transaction) bool) decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	total := decimal.Zero
	for _, tx := range e.transactions {
		if keep(tx) {
			total = total.Add(tx.Amount)
		}
	}
	return total
}
