// Package main is the entry point for the dynval CLI.
package main

import (
	"os"

	"github.com/thoreinstein/dynval/cmd/dynval/commands"
	"github.com/thoreinstein/dynval/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.Code(err))
	}
}
