// Package config resolves the runtime configuration shared by bumblebeed
// and optirun. Values come from compiled-in defaults, the command line and
// a KEY=VALUE file, merged so that flags beat the file and the file beats
// the defaults.
package config

import (
	"unicode/utf8"
)

// BufferSize mirrors the fixed field buffers of the on-disk format. String
// values keep at most BufferSize-1 bytes.
const BufferSize = 1024

// Compiled-in defaults.
const (
	DefaultXDisplay          = ":8"
	DefaultConfigFile        = "/etc/bumblebee/bumblebee.conf"
	DefaultLDPath            = "/usr/lib64/nvidia-bumblebee:/usr/lib/nvidia-bumblebee:/usr/lib32/nvidia-bumblebee"
	DefaultSocketPath        = "/var/run/bumblebee.socket"
	DefaultGroup             = "bumblebee"
	DefaultXConfFile         = "/etc/bumblebee/xorg.conf.%s"
	DefaultPMEnabled         = true
	DefaultStopOnExit        = true
	DefaultFallbackStart     = false
	DefaultCardShutdownState = 0
	DefaultVGLCompress       = "proxy"
	DefaultDriver            = "nvidia"
)

// Config is the resolved runtime configuration.
type Config struct {
	XDisplay   string // display the secondary X server runs on
	XConfFile  string // xorg.conf for the secondary server, may contain %s
	ConfigFile string // this program's own KEY=VALUE file
	Driver     string // driver backend name
	LDPath     string // library search path for the driver
	SocketPath string // daemon control socket
	GroupName  string // group allowed to use the daemon

	PMEnabled         bool
	StopOnExit        bool
	FallbackStart     bool
	CardShutdownState int

	VGLCompress string // transport compression for the remote display
	LogFile     string // optional log file, empty for none
}

// Defaults returns a Config holding the compiled-in defaults.
func Defaults() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults overwrites every field with its compiled-in default. The
// driver is only set when empty so an autodetected driver survives.
func (c *Config) ApplyDefaults() {
	c.XDisplay = DefaultXDisplay
	c.ConfigFile = DefaultConfigFile
	c.LDPath = DefaultLDPath
	c.SocketPath = DefaultSocketPath
	c.GroupName = DefaultGroup
	c.XConfFile = DefaultXConfFile
	c.PMEnabled = DefaultPMEnabled
	c.StopOnExit = DefaultStopOnExit
	c.FallbackStart = DefaultFallbackStart
	c.CardShutdownState = DefaultCardShutdownState
	c.VGLCompress = DefaultVGLCompress
	c.LogFile = ""
	if c.Driver == "" {
		c.Driver = DefaultDriver
	}
}

// bound truncates s to the field limit without splitting a UTF-8 sequence.
func bound(s string) string {
	if len(s) < BufferSize {
		return s
	}
	n := BufferSize - 1
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
