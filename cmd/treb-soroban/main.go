package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/treb-soroban/internal/cli"
	"github.com/trebuchet-org/treb-soroban/internal/cli/render"
	"github.com/trebuchet-org/treb-soroban/internal/config"
	"github.com/trebuchet-org/treb-soroban/internal/domain"
)

// Set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(domain.ExitCode(err))
	}
}
