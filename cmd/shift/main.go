// Package main provides the entry point for the shift file relocation CLI.
package main

import (
	"os"

	"github.com/jamesainslie/shift/pkg/shift/logging"
)

func main() {
	err := Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
