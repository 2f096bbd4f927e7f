package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the config file cannot be opened.
var ErrNotFound = errors.New("config file not found")

// setter applies one file value to a Config and returns what it stored,
// for the debug log.
type setter func(c *Config, value string) any

func setString(field func(*Config) *string) setter {
	return func(c *Config, v string) any {
		p := field(c)
		*p = bound(v)
		return *p
	}
}

func setBool(field func(*Config) *bool) setter {
	return func(c *Config, v string) any {
		p := field(c)
		*p = ParseLenientBool(v)
		return *p
	}
}

func setInt(field func(*Config) *int) setter {
	return func(c *Config, v string) any {
		p := field(c)
		*p = ParseLenientInt(v)
		return *p
	}
}

// fileKeys maps recognized keys to their setters. Keys match exactly.
var fileKeys = map[string]setter{
	"VGL_DISPLAY":             setString(func(c *Config) *string { return &c.XDisplay }),
	"STOP_SERVICE_ON_EXIT":    setBool(func(c *Config) *bool { return &c.StopOnExit }),
	"X_CONFFILE":              setString(func(c *Config) *string { return &c.XConfFile }),
	"VGL_COMPRESS":            setString(func(c *Config) *string { return &c.VGLCompress }),
	"ENABLE_POWER_MANAGEMENT": setBool(func(c *Config) *bool { return &c.PMEnabled }),
	"FALLBACK_START":          setBool(func(c *Config) *bool { return &c.FallbackStart }),
	"BUMBLEBEE_GROUP":         setString(func(c *Config) *string { return &c.GroupName }),
	"DRIVER":                  setString(func(c *Config) *string { return &c.Driver }),
	"NV_LIBRARY_PATH":         setString(func(c *Config) *string { return &c.LDPath }),
	"CARD_SHUTDOWN_STATE":     setInt(func(c *Config) *int { return &c.CardShutdownState }),
	"LOG_FILE":                setString(func(c *Config) *string { return &c.LogFile }),
}

// LoadFile reads the KEY=VALUE file at path into cfg. A file that cannot
// be opened yields ErrNotFound and leaves cfg untouched.
func LoadFile(path string, cfg *Config, log *zap.SugaredLogger) error {
	log.Debugf("Reading configuration file: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	defer f.Close()

	if err := Parse(f, cfg, log); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// Parse applies every recognized KEY=VALUE line of r to cfg. Blank lines
// and lines starting with '#' are skipped; unknown keys are ignored.
func Parse(r io.Reader, cfg *Config, log *zap.SugaredLogger) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			lineNo++
			applyLine(raw, lineNo, cfg, log)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func applyLine(raw string, lineNo int, cfg *Config, log *zap.SugaredLogger) {
	line := Trim(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	key, value, err := SplitKeyValue(line)
	if err != nil {
		log.Errorf("Error parsing configuration file line %d: %v", lineNo, err)
		return
	}
	set, ok := fileKeys[key]
	if !ok {
		return
	}
	log.Debugf("value set: %s = %v", key, set(cfg, value))
}
