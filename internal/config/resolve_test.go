package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mfulz/primeswitch/internal/logging"
	"github.com/mfulz/primeswitch/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newResolver returns a resolver whose default config file is path.
func newResolver(path string) (*Resolver, *observer.ObservedLogs) {
	log, logs := observedLogger()
	defaults := Defaults()
	defaults.ConfigFile = path
	return &Resolver{Defaults: &defaults, Log: log}, logs
}

func TestResolveClientWithoutFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.conf")
	r, logs := newResolver(missing)

	cfg, id, err := r.Resolve([]string{"/usr/bin/optirun"})
	require.NoError(t, err)

	assert.Equal(t, "optirun", id.ProgramName)
	assert.Equal(t, status.RunApp, id.RunMode)
	assert.Equal(t, logging.VerbWarn, id.Verbosity)
	assert.Empty(t, id.Args)

	want := Defaults()
	want.ConfigFile = missing
	want.XConfFile = "/etc/bumblebee/xorg.conf.nvidia"
	assert.Equal(t, want, *cfg)

	assert.Equal(t, 1, logs.FilterMessageSnippet("Error in config file").Len())
	assert.Equal(t, 1, logs.FilterMessage("Using default configuration").Len())
}

func TestResolveServerMode(t *testing.T) {
	r, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))
	_, id, err := r.Resolve([]string{"/usr/sbin/bumblebeed"})
	require.NoError(t, err)
	assert.Equal(t, status.RunServer, id.RunMode)

	_, id, err = r.Resolve([]string{"/usr/sbin/bumblebeed", "--daemon"})
	require.NoError(t, err)
	assert.Equal(t, status.RunDaemon, id.RunMode)
}

func TestResolveFileValueApplied(t *testing.T) {
	path := writeConf(t, "STOP_SERVICE_ON_EXIT=1\nDRIVER=nouveau\n")
	r, _ := newResolver(path)
	base := Defaults()
	base.StopOnExit = false
	base.ConfigFile = path
	r.Defaults = &base

	cfg, _, err := r.Resolve([]string{"bumblebeed"})
	require.NoError(t, err)
	assert.True(t, cfg.StopOnExit)
	assert.Equal(t, "nouveau", cfg.Driver)
	assert.Equal(t, "/etc/bumblebee/xorg.conf.nouveau", cfg.XConfFile)
}

func TestResolveFlagBeatsFile(t *testing.T) {
	path := writeConf(t, "VGL_DISPLAY=:1\n")
	r, _ := newResolver(path)

	cfg, _, err := r.Resolve([]string{"bumblebeed", "-d", ":2"})
	require.NoError(t, err)
	assert.Equal(t, ":2", cfg.XDisplay)

	cfg, _, err = r.Resolve([]string{"bumblebeed"})
	require.NoError(t, err)
	assert.Equal(t, ":1", cfg.XDisplay)
}

func TestResolvePrecedencePerField(t *testing.T) {
	path := writeConf(t, strings.Join([]string{
		"VGL_DISPLAY=:file",
		"X_CONFFILE=/file/xorg.conf",
		"VGL_COMPRESS=file",
		"BUMBLEBEE_GROUP=file",
		"NV_LIBRARY_PATH=/file/lib",
	}, "\n"))

	tests := []struct {
		name  string
		flag  []string
		field func(*Config) string
		def   string
		file  string
		cli   string
	}{
		{"display", []string{"-d", ":cli"}, func(c *Config) string { return c.XDisplay }, DefaultXDisplay, ":file", ":cli"},
		{"xconf", []string{"-x", "/cli/xorg.conf"}, func(c *Config) string { return c.XConfFile }, "/etc/bumblebee/xorg.conf.nvidia", "/file/xorg.conf", "/cli/xorg.conf"},
		{"compress", []string{"-c", "cli"}, func(c *Config) string { return c.VGLCompress }, DefaultVGLCompress, "file", "cli"},
		{"group", []string{"-g", "cli"}, func(c *Config) string { return c.GroupName }, DefaultGroup, "file", "cli"},
		{"ldpath", []string{"-l", "/cli/lib"}, func(c *Config) string { return c.LDPath }, DefaultLDPath, "/file/lib", "/cli/lib"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			absent, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))
			cfg, _, err := absent.Resolve([]string{"bumblebeed"})
			require.NoError(t, err)
			assert.Equal(t, tc.def, tc.field(cfg), "default")

			r, _ := newResolver(path)
			cfg, _, err = r.Resolve([]string{"bumblebeed"})
			require.NoError(t, err)
			assert.Equal(t, tc.file, tc.field(cfg), "file over default")

			cfg, _, err = r.Resolve(append([]string{"bumblebeed"}, tc.flag...))
			require.NoError(t, err)
			assert.Equal(t, tc.cli, tc.field(cfg), "flag over file")
		})
	}
}

func TestResolveConfigFlagSelectsFile(t *testing.T) {
	path := writeConf(t, "DRIVER=nouveau\n")
	r, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))

	cfg, _, err := r.Resolve([]string{"bumblebeed", "--config", path})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "nouveau", cfg.Driver)
}

func TestResolveVersionSkipsFile(t *testing.T) {
	path := writeConf(t, "DRIVER=nouveau\n")
	r, logs := newResolver(path)

	cfg, id, err := r.Resolve([]string{"/usr/bin/optirun", "--version"})
	require.ErrorIs(t, err, ErrVersionRequested)
	assert.Nil(t, cfg)
	assert.Equal(t, "optirun", id.ProgramName)
	assert.Zero(t, logs.FilterMessageSnippet("Reading configuration file").Len())
}

func TestResolveUsageError(t *testing.T) {
	r, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))
	_, id, err := r.Resolve([]string{"bumblebeed", "--no-such-flag"})
	var uerr *UsageError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "bumblebeed", id.ProgramName)
}

func TestResolveVerbosityCountedOnce(t *testing.T) {
	r, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))
	_, id, err := r.Resolve([]string{"bumblebeed", "-v"})
	require.NoError(t, err)
	assert.Equal(t, logging.VerbInfo, id.Verbosity)
}

func TestResolveVerbosePassOneEnablesFileDebug(t *testing.T) {
	path := writeConf(t, "DRIVER=nouveau\n")
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	core, logs := observer.New(level)
	defaults := Defaults()
	defaults.ConfigFile = path
	r := &Resolver{Defaults: &defaults, Log: zap.New(core).Sugar(), Level: &level}

	_, _, err := r.Resolve([]string{"bumblebeed", "-vv"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.Equal(t, 1, logs.FilterMessageSnippet("value set: DRIVER").Len())
}

func TestResolveQuietSuppressesFileErrors(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	core, logs := observer.New(level)
	defaults := Defaults()
	defaults.ConfigFile = filepath.Join(t.TempDir(), "absent.conf")
	r := &Resolver{Defaults: &defaults, Log: zap.New(core).Sugar(), Level: &level}

	_, id, err := r.Resolve([]string{"bumblebeed", "-q"})
	require.NoError(t, err)
	assert.Equal(t, logging.VerbNone, id.Verbosity)
	assert.Zero(t, logs.Len())
}

func TestResolveApplicationArgs(t *testing.T) {
	r, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))
	_, id, err := r.Resolve([]string{"optirun", "-c", "jpeg", "--", "glxgears", "-info"})
	require.NoError(t, err)
	assert.Equal(t, []string{"glxgears", "-info"}, id.Args)
}

func TestResolveTemplateOverflow(t *testing.T) {
	r, _ := newResolver(filepath.Join(t.TempDir(), "absent.conf"))
	defaults := *r.Defaults
	defaults.Driver = "nv%s"
	r.Defaults = &defaults

	_, _, err := r.Resolve([]string{"bumblebeed"})
	require.ErrorIs(t, err, ErrTemplateUnbounded)
}

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name, path, driver, want string
	}{
		{"single", "/etc/X%sconf", "nvidia", "/etc/Xnvidiaconf"},
		{"none", "/etc/X11/xorg.conf", "nvidia", "/etc/X11/xorg.conf"},
		{"twice", "/etc/%s/xorg.conf.%s", "nouveau", "/etc/nouveau/xorg.conf.nouveau"},
		{"formed by substitution", "/etc/a%%ss", "b%", "/etc/a%bb%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandTemplate(tc.path, tc.driver)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, TemplateMarker)
		})
	}

	_, err := ExpandTemplate("/etc/xorg.conf.%s", "%s")
	require.ErrorIs(t, err, ErrTemplateUnbounded)
}
