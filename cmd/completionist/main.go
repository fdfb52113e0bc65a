// Package main provides the entry point for the completionist CLI tool.
package main

import (
	"github.com/playtrack/completionist/cmd/completionist/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
