package mpesa

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NgigiN/wallet/internal/analyzer"
)

// Ksh<number>[,number]* with optional fractional part
const money = `Ksh[\d,]+(?:\.\d+)?`

var (
	// Tolerates the variants seen in practice: optional periods, "for account ..."
	// inside the recipient, a business balance, no space before "New" and
	// trailing promotional text.
	outgoingPattern = regexp.MustCompile(`(?i)(\w+)\s+Confirmed\.?\s+(` + money + `)\s+(sent|paid)\s+to\s+(.*?)\s*\.?\s+on\s+(\d{1,2}/\d{1,2}/\d{2})\s+at\s+(\d{1,2}:\d{2}\s?(?:AM|PM))\.?\s*New\s+(?:M-PESA|business)\s+balance\s+is\s+(` + money + `)\.\s*Transaction\s+cost,?\s*(` + money + `)(?:\.|\b)`)

	incomingPattern = regexp.MustCompile(`(?i)(\w+)\s+Confirmed\.?\s*You\s+have\s+received\s+(` + money + `)\s+from\s+(.*?)\s*\.?\s+on\s+(\d{1,2}/\d{1,2}/\d{2})\s+at\s+(\d{1,2}:\d{2}\s?(?:AM|PM))\.?\s*New\s+(?:M-PESA|business)\s+balance\s+is\s+(` + money + `)`)

	trailingPhone = regexp.MustCompile(`\s+\+?\d{9,12}$`)
)

var ErrNotMPesaMessage = errors.New("not a valid M-PESA confirmation")

type ParsedTransaction struct {
	TransactionID string
	Type          analyzer.Type
	Amount        decimal.Decimal
	Counterparty  string
	DateTime      time.Time
	Balance       decimal.Decimal
	Cost          decimal.Decimal
}

// LooksLikeConfirmation is a cheap check used to split batched messages.
func LooksLikeConfirmation(line string) bool {
	if !strings.Contains(line, "Confirmed") {
		return false
	}
	return strings.Contains(line, "sent to") || strings.Contains(line, "paid to") || strings.Contains(line, "received")
}

// ParseMPesaMessage parses an outgoing (debit) or incoming (credit) confirmation.
func ParseMPesaMessage(msg string) (*ParsedTransaction, error) {
	if m := outgoingPattern.FindStringSubmatch(msg); m != nil {
		return parseOutgoing(m)
	}
	if m := incomingPattern.FindStringSubmatch(msg); m != nil {
		return parseIncoming(m)
	}
	return nil, ErrNotMPesaMessage
}

func parseOutgoing(m []string) (*ParsedTransaction, error) {
	amount, err := parseKsh(m[2])
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	dateTime, err := parseDateTime(m[5], m[6])
	if err != nil {
		return nil, err
	}
	balance, err := parseKsh(m[7])
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	cost, err := parseKsh(m[8])
	if err != nil {
		return nil, fmt.Errorf("failed to parse cost: %w", err)
	}

	return &ParsedTransaction{
		TransactionID: strings.ToUpper(m[1]),
		Type:          analyzer.Debit,
		Amount:        amount,
		Counterparty:  cleanName(m[4]),
		DateTime:      dateTime,
		Balance:       balance,
		Cost:          cost,
	}, nil
}

func parseIncoming(m []string) (*ParsedTransaction, error) {
	amount, err := parseKsh(m[2])
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	dateTime, err := parseDateTime(m[4], m[5])
	if err != nil {
		return nil, err
	}
	balance, err := parseKsh(m[6])
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}

	return &ParsedTransaction{
		TransactionID: strings.ToUpper(m[1]),
		Type:          analyzer.Credit,
		Amount:        amount,
		Counterparty:  trailingPhone.ReplaceAllString(cleanName(m[3]), ""),
		DateTime:      dateTime,
		Balance:       balance,
		Cost:          decimal.Zero,
	}, nil
}

// ToTransaction maps the confirmation onto an analyzer record. An empty
// note falls back to a generated description.
func (p *ParsedTransaction) ToTransaction(note string) *analyzer.Transaction {
	desc := strings.TrimSpace(note)
	if desc == "" {
		if p.Type == analyzer.Credit {
			desc = "M-PESA from " + p.Counterparty
		} else {
			desc = "M-PESA to " + p.Counterparty
		}
	}
	return &analyzer.Transaction{
		ID:          analyzer.StringID(p.TransactionID),
		Date:        analyzer.DateOf(p.DateTime),
		Amount:      p.Amount,
		Type:        p.Type,
		Description: desc,
		Merchant:    p.Counterparty,
	}
}

func parseKsh(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(s, "Ksh"), ",", ""))
}

func cleanName(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
	// Normalize double spaces
	return strings.Join(strings.Fields(s), " ")
}

// parseDateTime reads d/m/yy and h:mm AM|PM, with or without the space before the meridiem.
func parseDateTime(date, clock string) (time.Time, error) {
	parts := strings.Split(date, "/")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	yy, _ := strconv.Atoi(parts[2])

	clock = strings.ToUpper(strings.Join(strings.Fields(clock), ""))
	clock = strings.TrimSuffix(strings.TrimSuffix(clock, "AM"), "PM") + " " + clock[len(clock)-2:]

	dateTime, err := time.Parse("2006-01-02 3:04 PM", fmt.Sprintf("%d-%02d-%02d %s", 2000+yy, month, day, clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date/time: %w", err)
	}
	return dateTime, nil
}
