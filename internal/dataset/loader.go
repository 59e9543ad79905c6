// Package dataset reads the initial transaction collection from a JSON file.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/NgigiN/wallet/internal/analyzer"
)

// Load reads a JSON array of transaction records from path.
func Load(path string) ([]*analyzer.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	txs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return txs, nil
}

// Decode reads a JSON array of transaction records, keeping their order.
func Decode(r io.Reader) ([]*analyzer.Transaction, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", analyzer.ErrMalformedRecord, err)
	}

	txs := make([]*analyzer.Transaction, 0, len(raw))
	for i, item := range raw {
		tx := new(analyzer.Transaction)
		if err := json.Unmarshal(item, tx); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
