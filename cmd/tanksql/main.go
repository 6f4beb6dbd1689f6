// Package main provides the TankSQL command-line interface.
package main

import (
	"os"

	"github.com/TankHQ/tank/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
