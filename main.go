package main

import (
	"os"

	"github.com/agentx-labs/dashlaunch/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(version, commit, date))
}
