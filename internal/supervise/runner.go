package supervise

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// CommandRunner abstracts process execution so service control can be tested
// without a JVM on the host.
type CommandRunner interface {
	// Run executes a command synchronously and returns its combined output.
	// extraEnv entries are appended to the current process environment.
	Run(name string, args []string, extraEnv []string) ([]byte, error)

	// StartDetached launches a foreground command as a detached process with
	// stdout and stderr appended to logFile, and returns its pid. The child
	// outlives this process.
	StartDetached(name string, args []string, extraEnv []string, logFile string) (int, error)
}

// ExecRunner is the real CommandRunner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args []string, extraEnv []string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	return cmd.CombinedOutput()
}

func (ExecRunner) StartDetached(name string, args []string, extraEnv []string, logFile string) (int, error) {
	log, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	defer log.Close()

	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdout = log
	cmd.Stderr = log
	cmd.Stdin = nil
	// New session so the child survives this process and ignores our
	// terminal signals.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", name, err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("failed to release %s: %w", name, err)
	}
	return pid, nil
}
