package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NgigiN/wallet/internal/analyzer"
	"github.com/NgigiN/wallet/internal/mpesa"
)

const listLimit = 10

const usage = "**Commands**\n" +
	"`!total` `!debit` `!average` `!count` `!dominant` `!month` `!debitmonth` `!descriptions`\n" +
	"`!merchant <name>` `!type <debit|credit>` `!first <debit|credit>` `!find <id>`\n" +
	"`!date YYYY-MM-DD` `!range FROM TO` `!before DATE` `!amount MIN MAX`\n" +
	"Paste M-PESA confirmations (optionally followed by `r: <reason>`) to add them."

var errUsage = errors.New("usage")

// respond returns the reply for one channel message, or "" when there is nothing to say.
func (b *Bot) respond(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "!") {
		reply, err := b.runCommand(strings.Fields(content))
		if errors.Is(err, errUsage) {
			return usage
		}
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		return reply
	}
	return b.ingest(content)
}

func (b *Bot) runCommand(args []string) (string, error) {
	e := b.engine
	switch strings.ToLower(args[0]) {
	case "!help":
		return usage, nil
	case "!total":
		return "**Total**: " + money(e.TotalAmount()), nil
	case "!debit":
		return "**Total debit**: " + money(e.TotalDebitAmount()), nil
	case "!count":
		return fmt.Sprintf("**Transactions**: %d", e.Len()), nil
	case "!average":
		avg, err := e.AverageAmount()
		if errors.Is(err, analyzer.ErrEmptyCollection) {
			return "No transactions found.", nil
		}
		return "**Average**: " + money(avg), err
	case "!dominant":
		return "**Dominant type**: " + string(e.DominantType()), nil
	case "!month":
		return "**Most active month**: " + e.MostActiveMonth().String(), nil
	case "!debitmonth":
		return "**Most active debit month**: " + e.MostActiveDebitMonth().String(), nil
	case "!descriptions":
		return formatLines("Descriptions", e.Descriptions()), nil
	case "!merchant":
		if len(args) < 2 {
			return "", errUsage
		}
		name := strings.Join(args[1:], " ")
		return formatRecords(name, e.ByMerchant(name)), nil
	case "!type":
		if len(args) != 2 {
			return "", errUsage
		}
		return formatRecords(args[1], e.UniqueByType(analyzer.Type(strings.ToLower(args[1])))), nil
	case "!first":
		if len(args) != 2 {
			return "", errUsage
		}
		tx, ok := e.FirstByType(analyzer.Type(strings.ToLower(args[1])))
		return formatLookup(tx, ok), nil
	case "!find":
		if len(args) != 2 {
			return "", errUsage
		}
		tx, ok := e.FindByID(analyzer.ParseID(args[1]))
		return formatLookup(tx, ok), nil
	case "!date":
		if len(args) != 2 {
			return "", errUsage
		}
		d, err := analyzer.ParseDate(args[1])
		if err != nil {
			return "", err
		}
		total := e.TotalAmountOnDate(d.Year(), int(d.Month()), d.Day())
		return fmt.Sprintf("**Total on %s**: %s", d, money(total)), nil
	case "!range":
		if len(args) != 3 {
			return "", errUsage
		}
		from, to, err := parseDates(args[1], args[2])
		if err != nil {
			return "", err
		}
		return formatRecords(fmt.Sprintf("%s to %s", from, to), e.InDateRange(from, to)), nil
	case "!before":
		if len(args) != 2 {
			return "", errUsage
		}
		d, err := analyzer.ParseDate(args[1])
		if err != nil {
			return "", err
		}
		return formatRecords("before "+d.String(), e.BeforeDate(d)), nil
	case "!amount":
		if len(args) != 3 {
			return "", errUsage
		}
		lo, err := decimal.NewFromString(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid amount %q", args[1])
		}
		hi, err := decimal.NewFromString(args[2])
		if err != nil {
			return "", fmt.Errorf("invalid amount %q", args[2])
		}
		return formatRecords(fmt.Sprintf("%s to %s", lo, hi), e.ByAmountRange(lo, hi)), nil
	default:
		return "", errUsage
	}
}

// ingest appends every M-PESA confirmation found in content. Lines after a
// confirmation starting with "r:" or "Reason:" become its description.
func (b *Bot) ingest(content string) string {
	batch := splitIntoTransactions(strings.Split(content, "\n"))
	if len(batch) == 0 {
		return ""
	}

	var tracked []string
	var failures []string
	for i, txData := range batch {
		parsed, err := mpesa.ParseMPesaMessage(txData.Message)
		if err != nil {
			failures = append(failures, fmt.Sprintf("Transaction %d: %v", i+1, err))
			continue
		}
		tx := parsed.ToTransaction(parseReason(txData.Metadata))
		b.engine.Append(tx)
		b.log.Info().
			Str("transaction_id", tx.ID.String()).
			Str("type", string(tx.Type)).
			Str("amount", tx.Amount.String()).
			Msg("Transaction appended")
		tracked = append(tracked, fmt.Sprintf("Tracked %s: %s %s (%s)", tx.ID, money(tx.Amount), tx.Merchant, tx.Type))
	}

	if len(batch) == 1 {
		if len(failures) == 1 {
			return "Invalid M-PESA message: " + strings.TrimPrefix(failures[0], "Transaction 1: ")
		}
		return tracked[0]
	}

	var sb strings.Builder
	sb.WriteString("**Batch Processing Complete**\n")
	fmt.Fprintf(&sb, "Successfully processed: %d transactions\n", len(tracked))
	if len(failures) > 0 {
		fmt.Fprintf(&sb, "Failed: %d transactions\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(&sb, "• %s\n", f)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

type TransactionData struct {
	Message  string
	Metadata []string
}

func splitIntoTransactions(lines []string) []TransactionData {
	var transactions []TransactionData
	var currentTx TransactionData
	var inTransaction bool

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if mpesa.LooksLikeConfirmation(line) {
			if inTransaction {
				transactions = append(transactions, currentTx)
			}
			currentTx = TransactionData{Message: line}
			inTransaction = true
		} else if inTransaction {
			currentTx.Metadata = append(currentTx.Metadata, line)
		}
	}

	if inTransaction {
		transactions = append(transactions, currentTx)
	}
	return transactions
}

func parseReason(lines []string) string {
	var reason string
	for _, line := range lines {
		if strings.HasPrefix(line, "Reason:") {
			reason = strings.TrimSpace(strings.TrimPrefix(line, "Reason:"))
		} else if strings.HasPrefix(line, "r:") {
			reason = strings.TrimSpace(strings.TrimPrefix(line, "r:"))
		}
	}
	return reason
}

func parseDates(from, to string) (analyzer.Date, analyzer.Date, error) {
	start, err := analyzer.ParseDate(from)
	if err != nil {
		return analyzer.Date{}, analyzer.Date{}, err
	}
	end, err := analyzer.ParseDate(to)
	if err != nil {
		return analyzer.Date{}, analyzer.Date{}, err
	}
	return start, end, nil
}

func money(d decimal.Decimal) string {
	return "Ksh" + d.StringFixed(2)
}

func formatLookup(tx *analyzer.Transaction, ok bool) string {
	if !ok {
		return "No matching transaction."
	}
	return formatRecord(tx)
}

func formatRecord(tx *analyzer.Transaction) string {
	return fmt.Sprintf("• **%s** %s %s at %s (#%s)\n  %s",
		money(tx.Amount), tx.Type, tx.Date, tx.Merchant, tx.ID, tx.Description)
}

func formatRecords(title string, txs []*analyzer.Transaction) string {
	if len(txs) == 0 {
		return fmt.Sprintf("No transactions found for %s.", title)
	}

	var sb strings.Builder
	total := decimal.Zero
	fmt.Fprintf(&sb, "**%s**\n\n", title)
	for i, tx := range txs {
		total = total.Add(tx.Amount)
		if i < listLimit {
			sb.WriteString(formatRecord(tx) + "\n")
		}
	}
	if len(txs) > listLimit {
		fmt.Fprintf(&sb, "... and %d more transactions\n", len(txs)-listLimit)
	}
	fmt.Fprintf(&sb, "\n**Total**: %s (%d transactions)", money(total), len(txs))
	return sb.String()
}

func formatLines(title string, lines []string) string {
	if len(lines) == 0 {
		return "No transactions found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n", title)
	for i, line := range lines {
		if i == listLimit {
			fmt.Fprintf(&sb, "... and %d more", len(lines)-listLimit)
			break
		}
		fmt.Fprintf(&sb, "• %s\n", line)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
