package main

import (
	"fmt"
	"os"

	"fjacquet/ledger-csv/cmd/accumulate"
	"fjacquet/ledger-csv/cmd/categorize"
	"fjacquet/ledger-csv/cmd/merge"
	"fjacquet/ledger-csv/cmd/normalize"
	"fjacquet/ledger-csv/cmd/root"
	"fjacquet/ledger-csv/cmd/validate"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(merge.Cmd)
	root.Cmd.AddCommand(accumulate.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
