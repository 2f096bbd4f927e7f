// Command optirun is the application client of primeswitch. It resolves
// the same configuration as bumblebeed, in application mode, and keeps
// everything after the options as the application to run.
package main

import (
	"os"

	"github.com/mfulz/primeswitch/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args, os.Stdout, os.Stderr))
}
