// Package main provides the entry point for the blindbench CLI.
package main

import (
	"os"

	"github.com/ai8future/blindbench/cmd/blindbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
