// Package pidfile guards the API server against a second instance on the same host
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning is matched by the error Acquire returns when a live
// process holds the file
var ErrAlreadyRunning = errors.New("server already running")

// AlreadyRunningError names the process holding the PID file
type AlreadyRunningError struct {
	PID int
}

func (e *AlreadyRunningError) Error() string {
	return fmt.Sprintf("server is already running (PID %d)", e.PID)
}

func (e *AlreadyRunningError) Is(target error) bool {
	return target == ErrAlreadyRunning
}

// PIDFile records the process ID of the running server
type PIDFile struct {
	path string
}

// New creates a PIDFile at path
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Path returns the file location
func (p *PIDFile) Path() string {
	return p.path
}

// Owner returns the PID recorded in the file when that process is still alive
func (p *PIDFile) Owner() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, isProcessRunning(pid)
}

// Acquire writes the current PID. A file left by a dead process, or one that
// does not hold a PID, is replaced. With force, a live owner is ignored too.
func (p *PIDFile) Acquire(force bool) error {
	if pid, alive := p.Owner(); alive && !force && pid != os.Getpid() {
		return &AlreadyRunningError{PID: pid}
	}

	if err := os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the file if it still belongs to this process
func (p *PIDFile) Release() error {
	if pid, _ := p.Owner(); pid != 0 && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isProcessRunning probes pid with signal 0
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// Exists, owned by another user
		return true
	default:
		return false
	}
}
