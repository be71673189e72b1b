package orchestrator

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Process is a running backend.
type Process interface {
	// Wait blocks until the process exits and returns its exit code.
	// A process killed by a signal has no exit code and reports 1.
	Wait() int
	// Signal delivers sig to the process.
	Signal(sig os.Signal) error
	Pid() int
}

// Launcher starts the backend process.
type Launcher interface {
	Start() (Process, error)
}

// CommandLauncher starts the backend as a child process. The child inherits
// the orchestrator's standard I/O and, unless Env is set, its full environment.
// The child is not tied to any context: its lifetime is its own.
type CommandLauncher struct {
	Command []string
	Env     []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Start spawns the configured command.
func (l *CommandLauncher) Start() (Process, error) {
	if len(l.Command) == 0 || l.Command[0] == "" {
		return nil, errors.New("backend command is empty")
	}

	cmd := exec.Command(l.Command[0], l.Command[1:]...)
	cmd.Env = l.Env
	cmd.Stdin = l.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = l.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = l.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &commandProcess{cmd: cmd}, nil
}

type commandProcess struct {
	cmd *exec.Cmd
}

func (p *commandProcess) Wait() int {
	err := p.cmd.Wait()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the child was killed by a signal.
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}

func (p *commandProcess) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}

func (p *commandProcess) Pid() int {
	return p.cmd.Process.Pid
}
