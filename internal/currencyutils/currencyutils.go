// Package currencyutils provides currency-string and decimal operations used throughout the pipeline.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var symbolRe = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s]`)

// StandardizeAmount converts currency string formats to a form that can be
// parsed by decimal.NewFromString. Handles patterns like "$1,234.56",
// "USD 1,234.56", "1 234.56" and parenthesized negatives "(148.32)".
func StandardizeAmount(amountStr string) string {
	amountStr = strings.TrimSpace(amountStr)

	// Accounting notation for negatives
	if strings.HasPrefix(amountStr, "(") && strings.HasSuffix(amountStr, ")") {
		amountStr = "-" + amountStr[1:len(amountStr)-1]
	}

	amountStr = strings.ReplaceAll(amountStr, "USD", "")
	amountStr = symbolRe.ReplaceAllString(amountStr, "")

	// Thousands separators
	amountStr = strings.ReplaceAll(amountStr, ",", "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	return amountStr
}

// ParseAmount parses a currency-formatted string into a decimal value.
// An empty string is an error here; use ParseOptionalAmount where absence
// is a legal state.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}

	return amount, nil
}

// ParseOptionalAmount parses a currency-formatted string that may be empty.
// An empty string after stripping is reported as absent (present == false),
// never coerced to zero: "absent" means no transaction of that polarity
// occurred, "0.00" is a zero-value transaction.
func ParseOptionalAmount(amountStr string) (decimal.Decimal, bool, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		// The zero value, not decimal.Zero, so an absent amount compares
		// equal to a freshly constructed one.
		return decimal.Decimal{}, false, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to parse amount %q: %w", amountStr, err)
	}

	return amount, true, nil
}

// FormatAmount formats a decimal amount with exactly two decimal places and
// no thousands separators, the canonical CSV cell form.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// IsParseable reports whether a string would parse as a decimal after
// currency stripping. Empty strings are parseable (as absent).
func IsParseable(amountStr string) bool {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return true
	}
	_, err := decimal.NewFromString(standardized)
	return err == nil
}
