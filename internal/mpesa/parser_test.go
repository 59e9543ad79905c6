package mpesa

import (
	"errors"
	"testing"

	"github.com/NgigiN/wallet/internal/analyzer"
)

func TestParseOutgoingVariants(t *testing.T) {
	cases := []struct {
		msg string
		id  string
		to  string
	}{
		{`TIH5CRR635 Confirmed. Ksh65.00 paid to Anthony Wambua Muinde2. on 17/9/25 at 6:56 PM.New M-PESA balance is Ksh719.18. Transaction cost, Ksh0.00. Amount you can transact within the day is 498,760.00. Save frequent Tills for quick payment on M-PESA app https://bit.ly/mpesalnk`, "TIH5CRR635", "Anthony Wambua Muinde2"},
		{`TIH6CSP6KA Confirmed. Ksh40.00 sent to Co-operative Bank Money Transfer for account 1082111 on 17/9/25 at 6:59 PM New M-PESA balance is Ksh679.18. Transaction cost, Ksh0.00.`, "TIH6CSP6KA", "Co-operative Bank Money Transfer for account 1082111"},
		{`TII5I5YNFP Confirmed. Ksh35.00 paid to FELIX MWENDWA KIKOLE. on 18/9/25 at 7:18 PM.New M-PESA balance is Ksh644.18. Transaction cost, Ksh0.00. Amount you can transact within the day is 499,965.00. Save frequent Tills for quick payment on M-PESA app https://bit.ly/mpesalnk`, "TII5I5YNFP", "FELIX MWENDWA KIKOLE"},
		{`TII8I79A5O Confirmed. Ksh40.00 sent to Divinah  Nyabuto on 18/9/25 at 7:22 PM. New M-PESA balance is Ksh604.18. Transaction cost, Ksh0.00. Amount you can transact within the day is 499,925.00. Sign up for Lipa Na M-PESA Till online https://m-pesaforbusiness.co.ke`, "TII8I79A5O", "Divinah Nyabuto"},
		{`TIJ9N9U6HT Confirmed. Ksh25.00 sent to Caroline  Mwania on 19/9/25 at 7:05 PM. New M-PESA balance is Ksh579.18. Transaction cost, Ksh0.00. Amount you can transact within the day is 499,975.00. Sign up for Lipa Na M-PESA Till online https://m-pesaforbusiness.co.ke`, "TIJ9N9U6HT", "Caroline Mwania"},
	}

	for _, c := range cases {
		p, err := ParseMPesaMessage(c.msg)
		if err != nil {
			t.Fatalf("expected parse ok for %s, got err: %v", c.id, err)
		}
		if p.TransactionID != c.id {
			t.Fatalf("wrong id. want %s got %s", c.id, p.TransactionID)
		}
		if !p.Amount.IsPositive() {
			t.Fatalf("expected positive amount for %s, got %s", c.id, p.Amount)
		}
		if p.Type != analyzer.Debit {
			t.Fatalf("expected debit for %s, got %s", c.id, p.Type)
		}
		if p.Counterparty != c.to {
			t.Fatalf("wrong counterparty for %s. want %q got %q", c.id, c.to, p.Counterparty)
		}
	}
}

func TestParseIncoming(t *testing.T) {
	msg := `TIK1ABC234 Confirmed.You have received Ksh1,500.00 from JOHN  DOE 0712345678 on 20/9/25 at 10:15 AM New M-PESA balance is Ksh2,079.18. Separate personal and business funds through Pochi la Biashara`
	p, err := ParseMPesaMessage(msg)
	if err != nil {
		t.Fatalf("expected parse ok, got err: %v", err)
	}
	if p.Type != analyzer.Credit || p.Counterparty != "JOHN DOE" {
		t.Fatalf("unexpected parse: %+v", p)
	}
	if p.Amount.String() != "1500" || p.Balance.String() != "2079.18" {
		t.Fatalf("unexpected amounts: %s %s", p.Amount, p.Balance)
	}
	if p.DateTime.Hour() != 10 || p.DateTime.Day() != 20 || p.DateTime.Year() != 2025 {
		t.Fatalf("unexpected time: %s", p.DateTime)
	}
}

func TestParseRejectsOtherText(t *testing.T) {
	if _, err := ParseMPesaMessage("lunch with the team"); !errors.Is(err, ErrNotMPesaMessage) {
		t.Fatalf("want ErrNotMPesaMessage, got %v", err)
	}
}

func TestToTransaction(t *testing.T) {
	p, err := ParseMPesaMessage(`TII5I5YNFP Confirmed. Ksh35.00 paid to FELIX MWENDWA KIKOLE. on 18/9/25 at 7:18 PM.New M-PESA balance is Ksh644.18. Transaction cost, Ksh0.00.`)
	if err != nil {
		t.Fatal(err)
	}

	tx := p.ToTransaction("")
	if tx.ID.String() != "TII5I5YNFP" || tx.Date.String() != "2025-09-18" {
		t.Fatalf("unexpected record %s", tx)
	}
	if tx.Description != "M-PESA to FELIX MWENDWA KIKOLE" || tx.Merchant != "FELIX MWENDWA KIKOLE" {
		t.Fatalf("unexpected record %s", tx)
	}
	if got := p.ToTransaction("  groceries "); got.Description != "groceries" {
		t.Fatalf("note should become the description, got %q", got.Description)
	}
}

func TestLooksLikeConfirmation(t *testing.T) {
	if !LooksLikeConfirmation("ABC Confirmed. Ksh1.00 sent to X") {
		t.Fatal("expected outgoing line to match")
	}
	if LooksLikeConfirmation("c: food") {
		t.Fatal("metadata line should not match")
	}
}
