package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/mfulz/primeswitch/internal/logging"
	"github.com/mfulz/primeswitch/internal/status"
	"github.com/spf13/pflag"
)

var (
	// ErrVersionRequested is returned when --version was given.
	ErrVersionRequested = errors.New("version requested")
	// ErrHelpRequested is returned when --help was given.
	ErrHelpRequested = errors.New("help requested")
)

// UsageError reports an unrecognized option or a missing option value.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %v", e.Err)
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// boundedValue is a string flag that truncates to the field limit.
type boundedValue struct {
	p *string
}

func (b boundedValue) Set(s string) error {
	*b.p = bound(s)
	return nil
}

func (b boundedValue) String() string {
	if b.p == nil {
		return ""
	}
	return *b.p
}

func (b boundedValue) Type() string { return "string" }

// errNoValue rejects "--flag=value" on a valueless flag.
var errNoValue = errors.New("option takes no value")

// actionValue is a valueless flag that runs a function each time it is
// seen. pflag hands it NoOptDefVal when no value was given.
type actionValue func()

func (a actionValue) Set(s string) error {
	if s != "true" {
		return errNoValue
	}
	a()
	return nil
}

func (a actionValue) String() string { return "" }
func (a actionValue) Type() string   { return "bool" }

// flagPass carries the state of one parse over the argument vector.
type flagPass struct {
	cfg      *Config
	id       *status.Identity
	terminal error // first --version or --help seen
}

func (p *flagPass) stop(err error) {
	if p.terminal == nil {
		p.terminal = err
	}
}

func (p *flagPass) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(p.id.ProgramName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SetInterspersed(false)
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "silent" {
			name = "quiet"
		}
		return pflag.NormalizedName(name)
	})

	toggle := func(name, short, usage string, fn func()) {
		fs.VarPF(actionValue(fn), name, short, usage).NoOptDefVal = "true"
	}
	toggle("daemon", "D", "Run as daemon.", func() { p.id.RunMode = status.RunDaemon })
	toggle("quiet", "q", "Be quiet (sets verbosity to zero)", func() { p.id.Verbosity = logging.VerbNone })
	toggle("verbose", "v", "Be more verbose (can be used multiple times)", func() { p.id.Verbosity = p.id.Verbosity.Increase() })
	toggle("version", "V", "Print version and exit.", func() { p.stop(ErrVersionRequested) })
	toggle("help", "h", "Show this help screen.", func() { p.stop(ErrHelpRequested) })

	str := func(name, short, usage string, field *string) {
		fs.VarP(boundedValue{field}, name, short, usage)
	}
	str("xconf", "x", "xorg.conf file to use.", &p.cfg.XConfFile)
	str("display", "d", "X display number to use.", &p.cfg.XDisplay)
	str("socket", "s", "Unix socket to use.", &p.cfg.SocketPath)
	str("group", "g", "Name of group to change to.", &p.cfg.GroupName)
	str("ldpath", "l", "LD driver path to use.", &p.cfg.LDPath)
	str("vgl-compress", "c", "Connection method to use for VirtualGL.", &p.cfg.VGLCompress)
	str("config", "C", "Configuration file to use.", &p.cfg.ConfigFile)
	return fs
}

// ApplyFlags parses args (argv without the program path) into cfg and id
// and returns the positional arguments after the options. Parsing stops
// at the first non-option. The first --version or --help seen wins over
// anything after it and is returned as ErrVersionRequested or
// ErrHelpRequested; bad options yield a *UsageError.
func ApplyFlags(args []string, cfg *Config, id *status.Identity) ([]string, error) {
	p := &flagPass{cfg: cfg, id: id}
	fs := p.flagSet()
	err := fs.Parse(args)
	if p.terminal != nil {
		return nil, p.terminal
	}
	if err != nil {
		return nil, &UsageError{Err: err}
	}
	return fs.Args(), nil
}
