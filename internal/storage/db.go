package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NgigiN/wallet/internal/analyzer"
)

// Database is a sqlite source for the initial transaction collection.
// Records appended to a running engine are never written back.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Transaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

// SaveTransactions replaces the stored dataset with txs, in order, in one
// database transaction. Saving the same dataset twice leaves one copy.
func (d *Database) SaveTransactions(txs []*analyzer.Transaction) error {
	rows := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, fromRecord(tx))
	}
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&Transaction{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

// LoadTransactions returns every stored record in insertion order.
func (d *Database) LoadTransactions() ([]*analyzer.Transaction, error) {
	var rows []Transaction
	if err := d.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	txs := make([]*analyzer.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.toRecord())
	}
	return txs, nil
}

func (d *Database) Count() (int64, error) {
	var n int64
	if err := d.db.Model(&Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
