// Package main is the entry point for the gachactl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/xtding233/gacha-core/cmd/gachactl/cmd"
	gerrors "github.com/xtding233/gacha-core/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		st := gerrors.GRPCStatus(err)
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", st.Code(), err)
		os.Exit(1)
	}
}
