// Package main is the entry point for the craftwiz CLI.
package main

import (
	"os"

	"craftwiz/cmd/craftwiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
