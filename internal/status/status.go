// Package status holds the process identity: who this process is, how it
// was invoked and how talkative it should be. It is built once during
// configuration resolution and read by everything that runs afterwards.
package status

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mfulz/primeswitch/internal/logging"
)

// RunMode is the operating role of the process.
type RunMode int

const (
	RunServer RunMode = iota
	RunApp
	RunDaemon
)

// ClientProgram is the invocation name that selects RunApp.
const ClientProgram = "optirun"

func (m RunMode) String() string {
	switch m {
	case RunApp:
		return "application"
	case RunDaemon:
		return "daemon"
	default:
		return "server"
	}
}

// Identity describes the running process.
type Identity struct {
	ProgramName string
	RunMode     RunMode
	Verbosity   logging.Verbosity
	LastError   string

	// Args are the positional arguments left after option parsing.
	Args []string

	// InstanceID tags every log record of this process.
	InstanceID string

	// Run state owned by the socket and process collaborators.
	Socket   int
	AppCount int
	XPID     int
}

// ProgramName returns the final path segment of an invocation path.
func ProgramName(argv0 string) string {
	if i := strings.LastIndexByte(argv0, '/'); i >= 0 {
		return argv0[i+1:]
	}
	return argv0
}

// ModeFor returns the run mode implied by a program name.
func ModeFor(program string) RunMode {
	if program == ClientProgram {
		return RunApp
	}
	return RunServer
}

// NewIdentity derives the identity of a process invoked as argv0.
func NewIdentity(argv0 string) *Identity {
	name := ProgramName(argv0)
	return &Identity{
		ProgramName: name,
		RunMode:     ModeFor(name),
		Verbosity:   logging.VerbWarn,
		InstanceID:  uuid.NewString(),
		Socket:      -1,
	}
}

// IsClient reports whether the process launches applications.
func (id *Identity) IsClient() bool {
	return id.ProgramName == ClientProgram
}
