package main

import (
	"os"

	"github.com/HershLalwani/qasm3circ/cmd/qasm3circ/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
