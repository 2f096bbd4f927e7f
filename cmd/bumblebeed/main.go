// Command bumblebeed is the daemon side of primeswitch. It resolves the
// runtime configuration (defaults, config file, command line) before any
// GPU or display work starts. Pass -D to run detached as a daemon.
package main

import (
	"os"

	"github.com/mfulz/primeswitch/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args, os.Stdout, os.Stderr))
}
