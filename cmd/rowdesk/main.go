// Package main provides the rowdesk CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/rowdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
