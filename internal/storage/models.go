package storage

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/NgigiN/wallet/internal/analyzer"
)

// Transaction is the sqlite row backing one analyzer record. The gorm
// primary key keeps insertion order.
type Transaction struct {
	gorm.Model
	TransactionID string          `gorm:"index"`
	NumericID     bool
	Date          time.Time       `gorm:"index"`
	Amount        decimal.Decimal `gorm:"type:text"`
	Type          string          `gorm:"index"`
	Description   string
	Merchant      string `gorm:"index"`
}

func fromRecord(tx *analyzer.Transaction) Transaction {
	return Transaction{
		TransactionID: tx.ID.String(),
		NumericID:     tx.ID.IsNumeric(),
		Date:          tx.Date.Time,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Description:   tx.Description,
		Merchant:      tx.Merchant,
	}
}

func (t Transaction) toRecord() *analyzer.Transaction {
	return &analyzer.Transaction{
		ID:          analyzer.NewID(t.TransactionID, t.NumericID),
		Date:        analyzer.DateOf(t.Date.UTC()),
		Amount:      t.Amount,
		Type:        analyzer.Type(t.Type),
		Description: t.Description,
		Merchant:    t.Merchant,
	}
}
