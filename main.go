package main

import (
	"os"

	"github.com/vaaskel/vaaskel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
