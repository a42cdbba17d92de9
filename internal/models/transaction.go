// Package models provides the data structures used throughout the pipeline.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fjacquet/ledger-csv/internal/currencyutils"
	"fjacquet/ledger-csv/internal/dateutils"
)

// Date is a civil date marshaled as YYYY-MM-DD in canonical CSV files.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalCSV renders the date in ISO form.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(dateutils.DateLayoutISO), nil
}

// UnmarshalCSV parses an ISO date cell.
func (d *Date) UnmarshalCSV(field string) error {
	if field == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateutils.DateLayoutISO, field)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", field, err)
	}
	d.Time = t
	return nil
}

// Amount is a decimal CSV cell that distinguishes absent from zero.
// An empty cell unmarshals as absent and an absent amount marshals back to
// an empty cell, so "no transaction of this polarity" survives a round trip
// without ever being coerced to 0.
type Amount struct {
	Decimal decimal.Decimal
	Present bool
}

// NewAmount creates a present Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d, Present: true}
}

// AmountFromString parses a currency-formatted string into an Amount,
// treating an empty string as absent.
func AmountFromString(s string) (Amount, error) {
	d, present, err := currencyutils.ParseOptionalAmount(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d, Present: present}, nil
}

// MarshalCSV renders the amount with two decimal places, or an empty cell
// when absent.
func (a Amount) MarshalCSV() (string, error) {
	if !a.Present {
		return "", nil
	}
	return currencyutils.FormatAmount(a.Decimal), nil
}

// UnmarshalCSV parses an amount cell, treating an empty cell as absent.
func (a *Amount) UnmarshalCSV(field string) error {
	parsed, err := AmountFromString(field)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Equal reports whether two amounts are both absent or both present with
// equal values.
func (a Amount) Equal(other Amount) bool {
	if a.Present != other.Present {
		return false
	}
	if !a.Present {
		return true
	}
	return a.Decimal.Equal(other.Decimal)
}

// Balance is the account-scoped running balance cell. Unlike Amount it is
// required, but it shares the fixed two-decimal rendering.
type Balance struct {
	decimal.Decimal
}

// NewBalance creates a Balance from a decimal value.
func NewBalance(d decimal.Decimal) Balance {
	return Balance{d}
}

// MarshalCSV renders the balance with two decimal places.
func (b Balance) MarshalCSV() (string, error) {
	return b.StringFixed(2), nil
}

// UnmarshalCSV parses a balance cell after currency stripping.
func (b *Balance) UnmarshalCSV(field string) error {
	d, err := currencyutils.ParseAmount(field)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", field, err)
	}
	b.Decimal = d
	return nil
}

// Transaction is the canonical record shared by all downstream stages.
// Exactly one of Deposit/Withdrawal is present per row, unless the row is a
// zero-amount adjustment with both absent. Created by the normalizer;
// Category is filled in place by the categorizer; immutable thereafter.
type Transaction struct {
	Date        Date    `csv:"date"`
	Description string  `csv:"description"`
	Category    string  `csv:"category"`
	Deposit     Amount  `csv:"deposit"`
	Withdrawal  Amount  `csv:"withdrawal"`
	Balance     Balance `csv:"balance"`
	AccountName string  `csv:"account_name"`
}

// SignedAmount returns +deposit or -withdrawal, or zero for a zero-amount
// adjustment.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Deposit.Present {
		return t.Deposit.Decimal
	}
	if t.Withdrawal.Present {
		return t.Withdrawal.Decimal.Neg()
	}
	return decimal.Zero
}

// AmountString renders the signed amount for diagnostics.
func (t *Transaction) AmountString() string {
	return t.SignedAmount().StringFixed(2)
}

// IsZeroAdjustment reports whether both amounts are absent.
func (t *Transaction) IsZeroAdjustment() bool {
	return !t.Deposit.Present && !t.Withdrawal.Present
}

// SameRow reports whether another transaction matches on date, description,
// amount and account, the exact-duplicate identity used by the merger and
// accumulator.
func (t *Transaction) SameRow(other *Transaction) bool {
	return t.Date.Equal(other.Date.Time) &&
		t.Description == other.Description &&
		t.Deposit.Equal(other.Deposit) &&
		t.Withdrawal.Equal(other.Withdrawal) &&
		t.AccountName == other.AccountName
}
