// Package cli is the command shell shared by bumblebeed and optirun. The
// process identity depends on the name the binary was invoked as, so both
// binaries run the same root command and let configuration resolution
// work out the rest.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/mfulz/primeswitch/internal/config"
	"github.com/mfulz/primeswitch/internal/logging"
	"github.com/mfulz/primeswitch/internal/status"
	"github.com/spf13/cobra"
)

// Log rotation for LOG_FILE.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// session is one invocation of the root command.
type session struct {
	argv0 string
	id    *status.Identity
	cfg   *config.Config
	code  int
}

// Execute runs the root command for argv and returns the exit status.
func Execute(argv []string, stdout, stderr io.Writer) int {
	s := &session{}
	args := []string{}
	if len(argv) > 0 {
		s.argv0 = argv[0]
		args = argv[1:]
	}
	return s.execute(args, stdout, stderr)
}

func (s *session) execute(args []string, stdout, stderr io.Writer) int {
	root := s.command()
	// The leading "--" keeps cobra's command lookup (including its hidden
	// completion commands) away from user arguments.
	root.SetArgs(append([]string{"--"}, args...))
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return s.code
}

func (s *session) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   status.ProgramName(s.argv0),
		Short: "Resolve the GPU switching configuration",
		Long: `Resolves the runtime configuration from compiled-in defaults, the
configuration file and the command line. Command line options always win
over the file, which wins over the defaults.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			s.code = s.run(cmd, append([]string{s.argv0}, args...))
			return nil
		},
	}
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		config.PrintUsage(c.OutOrStdout(), s.identity())
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		config.PrintUsage(c.OutOrStdout(), s.identity())
		return nil
	})
	return cmd
}

func (s *session) identity() *status.Identity {
	if s.id == nil {
		s.id = status.NewIdentity(s.argv0)
	}
	return s.id
}

func (s *session) run(cmd *cobra.Command, argv []string) int {
	stderr := cmd.ErrOrStderr()
	if err := logging.Init(logging.Config{Verbosity: logging.VerbWarn, Stderr: stderr}); err != nil {
		fmt.Fprintf(stderr, "failed to init logger: %v\n", err)
		return 1
	}

	cfg, id, err := config.Resolve(argv)
	s.id = id
	var usageErr *config.UsageError
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		config.PrintVersion(cmd.OutOrStdout())
		return 0
	case errors.Is(err, config.ErrHelpRequested):
		_ = cmd.Help()
		return 1
	case errors.As(err, &usageErr):
		logging.Log.Errorf("[%s] %v", id.ProgramName, usageErr.Err)
		_ = cmd.Usage()
		return 1
	case err != nil:
		logging.Log.Errorf("[%s] Failed to resolve configuration: %v", id.ProgramName, err)
		return 1
	}
	s.cfg = cfg

	err = logging.Init(logging.Config{
		Verbosity:  id.Verbosity,
		Stderr:     stderr,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Fields:     []any{"instance", id.InstanceID},
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to init logger: %v\n", err)
		return 1
	}

	logging.Log.Infof("[%s] Configuration resolved (mode: %s, display: %s, driver: %s)",
		id.ProgramName, id.RunMode, cfg.XDisplay, cfg.Driver)
	if id.RunMode == status.RunApp && len(id.Args) > 0 {
		logging.Log.Debugf("[%s] Application: %v", id.ProgramName, id.Args)
	}
	return 0
}
