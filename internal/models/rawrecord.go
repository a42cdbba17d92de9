package models

// RawRecord is one row of an untrusted bank export. Every field is kept as
// the raw string: dates arrive in several formats, amounts carry currency
// symbols and thousands separators, and the bank-assigned category is often
// wrong or generic. No invariants hold here.
type RawRecord struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Withdrawals string `csv:"Withdrawals"`
	Deposits    string `csv:"Deposits"`
	Category    string `csv:"Category"`
	Balance     string `csv:"Balance"`
}
