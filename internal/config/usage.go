package config

import (
	"fmt"
	"io"

	"github.com/mfulz/primeswitch/internal/status"
)

// Version is set at build time with -ldflags "-X ...config.Version=...".
var Version = "dev"

// PrintVersion writes the version line shown for --version.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "Version: %s\n", Version)
}

type usageLine struct {
	opt, desc string
}

var (
	clientUsage = []usageLine{
		{"-c [METHOD]", "Connection method to use for VirtualGL."},
		{"--vgl-compress [METHOD]", "Connection method to use for VirtualGL."},
	}
	serverUsage = []usageLine{
		{"-D", "Run as daemon."},
		{"--daemon", "Run as daemon."},
		{"-x [PATH]", "xorg.conf file to use."},
		{"--xconf [PATH]", "xorg.conf file to use."},
		{"-g [GROUPNAME]", "Name of group to change to."},
		{"--group [GROUPNAME]", "Name of group to change to."},
	}
	commonUsage = []usageLine{
		{"-q", "Be quiet (sets verbosity to zero)"},
		{"--quiet", "Be quiet (sets verbosity to zero)"},
		{"--silent", "Be quiet (sets verbosity to zero)"},
		{"-v", "Be more verbose (can be used multiple times)"},
		{"--verbose", "Be more verbose (can be used multiple times)"},
		{"-d [DISPLAY NAME]", "X display number to use."},
		{"--display [DISPLAY NAME]", "X display number to use."},
		{"-C [PATH]", "Configuration file to use."},
		{"--config [PATH]", "Configuration file to use."},
		{"-l [PATH]", "LD driver path to use."},
		{"--ldpath [PATH]", "LD driver path to use."},
		{"-s [PATH]", "Unix socket to use."},
		{"--socket [PATH]", "Unix socket to use."},
		{"-V", "Print version and exit."},
		{"--version", "Print version and exit."},
		{"-h", "Show this help screen."},
		{"--help", "Show this help screen."},
	}
)

// PrintUsage writes the help screen for id. optirun documents its client
// options, every other program name documents the server options.
func PrintUsage(w io.Writer, id *status.Identity) {
	program := id.ProgramName
	fmt.Fprintf(w, "%s version %s\n\n", program, Version)
	client := id.IsClient()
	if client {
		fmt.Fprintf(w, "Usage: %s [options] [--] [application to run] [application options]\n", program)
	} else {
		fmt.Fprintf(w, "Usage: %s [options]\n", program)
	}
	fmt.Fprintln(w, " Options:")
	lines := serverUsage
	if client {
		lines = clientUsage
	}
	for _, l := range append(append([]usageLine{}, lines...), commonUsage...) {
		fmt.Fprintf(w, "  %-25s%s\n", l.opt, l.desc)
	}
	fmt.Fprintln(w)
}
