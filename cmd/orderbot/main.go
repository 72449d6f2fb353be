// Command orderbot is the operator CLI: local chat, menu and NLU
// inspection, and schema migrations.
package main

import (
	"os"

	"github.com/turtacn/Joana-OrderBot/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
