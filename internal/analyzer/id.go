package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a transaction identifier that remembers whether it was written as a
// JSON number or a JSON string.
type ID struct {
	text    string
	numeric bool
}

func IntID(n int64) ID {
	return ID{text: strconv.FormatInt(n, 10), numeric: true}
}

func StringID(s string) ID {
	return ID{text: s}
}

// NewID rebuilds an ID from its text and original JSON kind.
func NewID(text string, numeric bool) ID {
	return ID{text: text, numeric: numeric}
}

// ParseID treats input that looks like a number as a numeric ID.
func ParseID(s string) ID {
	if _, err := decimal.NewFromString(s); err == nil {
		return ID{text: s, numeric: true}
	}
	return StringID(s)
}

func (id ID) String() string { return id.text }

func (id ID) IsNumeric() bool { return id.numeric }

// Equal compares loosely: numbers compare by value, strings compare exactly,
// and a number matches a string holding the same numeric value.
func (id ID) Equal(other ID) bool {
	switch {
	case id.numeric && other.numeric:
		return numericEqual(id.text, other.text)
	case !id.numeric && !other.numeric:
		return id.text == other.text
	default:
		return numericEqual(id.text, other.text)
	}
}

func numericEqual(a, b string) bool {
	da, ok := asNumber(a)
	if !ok {
		return false
	}
	db, ok := asNumber(b)
	if !ok {
		return false
	}
	return da.Equal(db)
}

func asNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	// A blank string counts as zero, so "" matches the number 0.
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("transaction_id must be a number or string: %w", err)
	}
	*id = ID{text: n.String(), numeric: true}
	return nil
}
