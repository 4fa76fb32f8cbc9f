// Package main is the entry point for the stackup CLI.
//
// stackup provisions a self-contained, containerized developer toolchain on
// a single host: CI server, code scanner with its relational database,
// artifact repository, document database, container registry, and a TLS
// reverse proxy in front of them. One command takes a fresh machine to a
// running stack.
//
// Commands: up, render, report, version.
//
// For detailed usage information, run:
//
//	stackup --help
package main

import (
	"fmt"
	"os"

	"github.com/fkoep/stackup/cmd/stackup/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
