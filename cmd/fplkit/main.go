package main

import "github.com/rushteam/fplkit/cli"

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.Execute()
}
