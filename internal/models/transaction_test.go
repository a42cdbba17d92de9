package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountCSVRoundTrip(t *testing.T) {
	// Absent must survive a marshal/unmarshal cycle without becoming zero.
	var absent Amount
	cell, err := absent.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "", cell)

	var back Amount
	require.NoError(t, back.UnmarshalCSV(cell))
	assert.False(t, back.Present)

	// And zero must stay a present zero, not collapse to absent.
	zero := NewAmount(decimal.Zero)
	cell, err = zero.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "0.00", cell)

	require.NoError(t, back.UnmarshalCSV(cell))
	assert.True(t, back.Present)
	assert.True(t, back.Decimal.IsZero())
}

func TestAmountFromString(t *testing.T) {
	amount, err := AmountFromString("$148.32")
	require.NoError(t, err)
	assert.True(t, amount.Present)
	assert.Equal(t, "148.32", amount.Decimal.StringFixed(2))

	amount, err = AmountFromString("")
	require.NoError(t, err)
	assert.False(t, amount.Present)

	_, err = AmountFromString("oops")
	assert.Error(t, err)
}

func TestAmountEqual(t *testing.T) {
	absent := Amount{}
	zero := NewAmount(decimal.Zero)

	assert.True(t, absent.Equal(Amount{}))
	assert.False(t, absent.Equal(zero), "absent and zero are different states")
	assert.True(t, NewAmount(decimal.RequireFromString("1.50")).Equal(NewAmount(decimal.RequireFromString("1.5"))))
}

func TestDateCSVRoundTrip(t *testing.T) {
	d := NewDate(2026, time.January, 31)
	cell, err := d.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "2026-01-31", cell)

	var back Date
	require.NoError(t, back.UnmarshalCSV(cell))
	assert.True(t, d.Equal(back.Time))

	assert.Error(t, back.UnmarshalCSV("01/31/2026"), "canonical files carry ISO dates only")
}

func TestBalanceUnmarshalCSV(t *testing.T) {
	var b Balance
	require.NoError(t, b.UnmarshalCSV("$42,156.78"))
	assert.Equal(t, "42156.78", b.StringFixed(2))

	assert.Error(t, b.UnmarshalCSV(""), "balance is required on every row")
}

func TestTransactionSignedAmount(t *testing.T) {
	deposit := Transaction{Deposit: NewAmount(decimal.RequireFromString("100.00"))}
	assert.Equal(t, "100.00", deposit.SignedAmount().StringFixed(2))

	withdrawal := Transaction{Withdrawal: NewAmount(decimal.RequireFromString("148.32"))}
	assert.Equal(t, "-148.32", withdrawal.SignedAmount().StringFixed(2))

	adjustment := Transaction{}
	assert.True(t, adjustment.SignedAmount().IsZero())
	assert.True(t, adjustment.IsZeroAdjustment())
	assert.False(t, deposit.IsZeroAdjustment())
}

func TestTransactionSameRow(t *testing.T) {
	base := Transaction{
		Date:        NewDate(2026, time.January, 31),
		Description: "Amazon Prime",
		Withdrawal:  NewAmount(decimal.RequireFromString("148.32")),
		AccountName: "checkings",
	}

	same := base
	same.Category = "amazon" // category is not part of row identity
	assert.True(t, base.SameRow(&same))

	otherAccount := base
	otherAccount.AccountName = "savings"
	assert.False(t, base.SameRow(&otherAccount))

	otherAmount := base
	otherAmount.Withdrawal = NewAmount(decimal.RequireFromString("148.33"))
	assert.False(t, base.SameRow(&otherAmount))
}

func TestIsValidCategory(t *testing.T) {
	for _, category := range Categories {
		assert.True(t, IsValidCategory(category))
	}
	assert.False(t, IsValidCategory("groceries"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("Amazon"), "categories are lowercase")
}
