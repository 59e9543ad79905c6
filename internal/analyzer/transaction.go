package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Debit  Type = "debit"
	Credit Type = "credit"
)

const (
	DominanceDebit  Dominance = "debit"
	DominanceCredit Dominance = "credit"
	DominanceEqual  Dominance = "equal"
)

const dateLayout = "2006-01-02"

type (
	// Type is the transaction_type value. Values outside Debit/Credit are kept as-is.
	Type string

	// Dominance is the result of comparing debit and credit counts.
	Dominance string

	// Date is a calendar date in UTC with no time component.
	Date struct {
		time.Time
	}

	// Transaction is one financial record of the collection.
	Transaction struct {
		ID          ID
		Date        Date
		Amount      decimal.Decimal
		Type        Type
		Description string
		Merchant    string

		serialized *string
	}

	wireTransaction struct {
		ID          *ID         `json:"transaction_id"`
		Date        *Date       `json:"transaction_date"`
		Amount      json.Number `json:"transaction_amount"`
		Type        Type        `json:"transaction_type"`
		Description string      `json:"transaction_description"`
		Merchant    string      `json:"merchant_name"`
	}
)

var (
	ErrMalformedRecord = errors.New("malformed transaction record")
	ErrEmptyCollection = errors.New("empty transaction collection")
)

// NewDate builds a Date the way time.Date does, so out-of-range days roll
// over into the next month (April 31 becomes May 1).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp; the time part is dropped.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// SameDay reports whether both dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Time.Date()
	y2, m2, d2 := other.Time.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("transaction_date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	id, date := t.ID, t.Date
	return json.Marshal(wireTransaction{
		ID:          &id,
		Date:        &date,
		Amount:      json.Number(t.Amount.String()),
		Type:        t.Type,
		Description: t.Description,
		Merchant:    t.Merchant,
	})
}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if w.ID == nil {
		return fmt.Errorf("%w: missing transaction_id", ErrMalformedRecord)
	}
	if w.Date == nil {
		return fmt.Errorf("%w: missing transaction_date", ErrMalformedRecord)
	}
	if w.Amount == "" {
		return fmt.Errorf("%w: missing transaction_amount", ErrMalformedRecord)
	}
	amount, err := decimal.NewFromString(w.Amount.String())
	if err != nil {
		return fmt.Errorf("%w: transaction_amount: %v", ErrMalformedRecord, err)
	}
	*t = Transaction{
		ID:          *w.ID,
		Date:        *w.Date,
		Amount:      amount,
		Type:        w.Type,
		Description: w.Description,
		Merchant:    w.Merchant,
	}
	return nil
}

// Serialized returns the memoized JSON form, if MemoizeSerialized has filled it.
// The cached text is not refreshed when fields change afterwards.
func (t *Transaction) Serialized() (string, bool) {
	if t.serialized == nil {
		return "", false
	}
	return *t.serialized, true
}

func (t *Transaction) memoize() error {
	if t.serialized != nil {
		return nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	s := string(b)
	t.serialized = &s
	return nil
}

func (t *Transaction) String() string {
	if s, ok := t.Serialized(); ok {
		return s
	}
	return fmt.Sprintf("#%s %s %s %s %q @ %s", t.ID, t.Date, t.Type, t.Amount.StringFixed(2), t.Description, t.Merchant)
}
