package main

import (
	"os"

	"github.com/BasisLabs/crypto-tax-engine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
