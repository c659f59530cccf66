// Package spawner runs an external consumer of the generator's byte stream,
// such as a statistical test battery reading from stdin.
package spawner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StopTimeout is how long Stop waits after an interrupt before killing.
const StopTimeout = time.Second

// Process is a child process whose stdin receives the stream.
type Process struct {
	ID      string
	Command string
	Args    []string
	Env     map[string]string
	// Stdout receives the child's stdout. Defaults to os.Stdout.
	Stdout io.Writer

	cmd       *exec.Cmd
	stderr    *lineLogger
	logger    zerolog.Logger
	startTime time.Time
	mu        sync.Mutex
	done      chan struct{}
	exitErr   error
}

// NewProcess describes a process without starting it.
func NewProcess(command string, args []string, env map[string]string, logger zerolog.Logger) *Process {
	id := uuid.NewString()[:8]
	return &Process{
		ID:      id,
		Command: command,
		Args:    args,
		Env:     env,
		Stdout:  os.Stdout,
		logger:  logger.With().Str("process_id", id).Logger(),
		done:    make(chan struct{}),
	}
}

// Start launches the process and returns its stdin. The process is killed
// if ctx is cancelled before it exits.
func (p *Process) Start(ctx context.Context) (io.WriteCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd != nil {
		return nil, fmt.Errorf("process already started")
	}

	p.cmd = exec.CommandContext(ctx, p.Command, p.Args...)
	p.cmd.Env = os.Environ()
	for k, v := range p.Env {
		p.cmd.Env = append(p.cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	p.cmd.Stdout = p.Stdout

	p.stderr = &lineLogger{logger: p.logger}
	p.cmd.Stderr = p.stderr
	// Bounds how long Wait blocks on output held open by grandchildren.
	p.cmd.WaitDelay = StopTimeout

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", p.Command, err)
	}
	p.startTime = time.Now()
	p.logger.Info().
		Str("command", p.Command).
		Strs("args", p.Args).
		Msg("Process started")

	go p.monitor()

	return stdin, nil
}

// Stop interrupts the process, then kills it if it has not exited within
// StopTimeout.
func (p *Process) Stop() error {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if !p.IsAlive() {
		return nil
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Debug().Err(err).Msg("Interrupt failed, killing")
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to stop process: %w", err)
		}
	}

	select {
	case <-p.done:
		return nil
	case <-time.After(StopTimeout):
		p.logger.Debug().Msg("Force killing process")
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill process: %w", err)
		}
		<-p.done
	}
	return nil
}

// Wait waits for the process to exit and returns its exit error.
func (p *Process) Wait() error {
	<-p.done
	return p.exitErr
}

// IsAlive reports whether the process is still running.
func (p *Process) IsAlive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *Process) monitor() {
	defer close(p.done)

	err := p.cmd.Wait()
	p.stderr.flush()

	p.mu.Lock()
	p.exitErr = err
	p.mu.Unlock()

	elapsed := time.Since(p.startTime)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.logger.Info().Dur("duration", elapsed).Msg("Process exited successfully")
	case errors.As(err, &exitErr) && !exitErr.Exited():
		p.logger.Info().Dur("duration", elapsed).Str("state", exitErr.String()).Msg("Process terminated by signal")
	default:
		p.logger.Error().Err(err).Dur("duration", elapsed).Msg("Process exited with error")
	}
}

// lineLogger logs each line the child writes to stderr.
type lineLogger struct {
	logger zerolog.Logger
	buf    []byte
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexByte(l.buf, '\n')
		if i < 0 {
			break
		}
		l.log(l.buf[:i])
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

func (l *lineLogger) flush() {
	l.log(l.buf)
	l.buf = nil
}

func (l *lineLogger) log(line []byte) {
	if text := strings.TrimRight(string(line), "\r"); text != "" {
		l.logger.Info().Str("stream", "stderr").Msg(text)
	}
}
