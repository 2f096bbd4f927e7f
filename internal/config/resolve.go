package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mfulz/primeswitch/internal/logging"
	"github.com/mfulz/primeswitch/internal/status"
	"go.uber.org/zap"
)

// TemplateMarker is replaced by the driver name in the xorg.conf path.
const TemplateMarker = "%s"

// maxTemplatePasses caps driver substitution in the xorg.conf path.
const maxTemplatePasses = 64

// ErrTemplateUnbounded means the xorg.conf path still held a marker after
// maxTemplatePasses substitutions, typically because the driver name
// itself contains one.
var ErrTemplateUnbounded = errors.New("xorg.conf template does not resolve")

// Resolver runs the configuration pipeline once per Resolve call.
type Resolver struct {
	// Defaults replaces the compiled-in defaults when set.
	Defaults *Config

	// Log receives diagnostics. Defaults to logging.Log.
	Log *zap.SugaredLogger

	// Level, if set, follows the identity's verbosity between passes.
	Level *zap.AtomicLevel
}

// Resolve resolves argv with the package logger.
func Resolve(argv []string) (*Config, *status.Identity, error) {
	r := &Resolver{Log: logging.Log, Level: &logging.Level}
	return r.Resolve(argv)
}

// Resolve builds the identity and configuration for a process invoked
// with argv (argv[0] is the program path). Precedence is
// defaults < file < flags: flags are applied once before the file, so
// they can point at another file, and again after it so they win.
//
// The identity is returned even on error so callers can print usage
// for the right program.
func (r *Resolver) Resolve(argv []string) (*Config, *status.Identity, error) {
	log := r.Log
	if log == nil {
		log = logging.Log
	}

	var argv0 string
	var args []string
	if len(argv) > 0 {
		argv0, args = argv[0], argv[1:]
	}
	id := status.NewIdentity(argv0)
	log = log.With("program", id.ProgramName)

	cfg := Defaults()
	if r.Defaults != nil {
		cfg = *r.Defaults
	}

	baseline := id.Verbosity
	if _, err := ApplyFlags(args, &cfg, id); err != nil {
		return nil, id, err
	}
	r.follow(id)

	if err := LoadFile(cfg.ConfigFile, &cfg, log); err != nil {
		log.Errorf("Error in config file: %v", err)
		if errors.Is(err, ErrNotFound) {
			log.Info("Using default configuration")
		}
	}

	id.Verbosity = baseline
	rest, err := ApplyFlags(args, &cfg, id)
	if err != nil {
		return nil, id, err
	}
	id.Args = rest
	r.follow(id)

	xconf, err := ExpandTemplate(cfg.XConfFile, cfg.Driver)
	if err != nil {
		return nil, id, err
	}
	cfg.XConfFile = xconf

	logActive(log, &cfg, id)
	return &cfg, id, nil
}

func (r *Resolver) follow(id *status.Identity) {
	if r.Level != nil {
		r.Level.SetLevel(id.Verbosity.Level())
	}
}

// ExpandTemplate replaces TemplateMarker in path with driver, one marker
// per pass, until none is left.
func ExpandTemplate(path, driver string) (string, error) {
	for i := 0; i < maxTemplatePasses; i++ {
		if !strings.Contains(path, TemplateMarker) {
			return path, nil
		}
		path = bound(strings.Replace(path, TemplateMarker, driver, 1))
	}
	if strings.Contains(path, TemplateMarker) {
		return "", fmt.Errorf("%w: driver %q", ErrTemplateUnbounded, driver)
	}
	return path, nil
}

func logActive(log *zap.SugaredLogger, cfg *Config, id *status.Identity) {
	log.Debugw("Active configuration",
		"run_mode", id.RunMode.String(),
		"verbosity", id.Verbosity.String(),
		"x_display", cfg.XDisplay,
		"xorg_conf", cfg.XConfFile,
		"config_file", cfg.ConfigFile,
		"ld_path", cfg.LDPath,
		"socket", cfg.SocketPath,
		"group", cfg.GroupName,
		"pm_enabled", cfg.PMEnabled,
		"stop_on_exit", cfg.StopOnExit,
		"fallback_start", cfg.FallbackStart,
		"vgl_compress", cfg.VGLCompress,
		"driver", cfg.Driver,
		"card_shutdown_state", cfg.CardShutdownState,
		"log_file", cfg.LogFile,
	)
}
