// Package transform runs a text through an external rewriting tool.
//
// The Transformer interface is all the rest of minedit depends on; Command is the implementation that pipes text through a subprocess (stdin in, stdout out), the way
// formatters and import sorters are normally driven by editors.
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned when a tool produces output that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("transform: output is not valid UTF-8")

// Transformer rewrites text.
type Transformer interface {
	Transform(ctx context.Context, text string) (string, error)
}

// Func adapts a function to a Transformer.
type Func func(ctx context.Context, text string) (string, error)

func (f Func) Transform(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Status captures how a tool process concluded.
type Status string

const (
	StatusCompleted     Status = "completed"
	StatusFailedToStart Status = "failed_to_start"
	StatusTimedOut      Status = "timed_out"
	StatusCanceled      Status = "canceled"
	StatusTerminated    Status = "terminated"
)

// ProcessError reports a tool run that did not complete with exit code 0.
type ProcessError struct {
	Path     string
	Args     []string
	Status   Status
	ExitCode int    // -1 if the process did not exit normally
	Signal   string // set when Status is StatusTerminated
	Stderr   string
	Err      error // underlying error from exec or the context
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", e.Path)
	switch e.Status {
	case StatusFailedToStart:
		b.WriteString("failed to start")
	case StatusTimedOut:
		b.WriteString("timed out")
	case StatusCanceled:
		b.WriteString("canceled")
	case StatusTerminated:
		fmt.Fprintf(&b, "terminated by %s", e.Signal)
	default:
		fmt.Fprintf(&b, "exit code %d", e.ExitCode)
	}
	if e.Err != nil && e.Status != StatusCompleted {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ": %s", stderr)
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Command is a Transformer that runs Path with Args, writes the text to its stdin, and returns its stdout. Stderr is captured for error reporting only.
type Command struct {
	Path string
	Args []string
	Dir  string        // working directory; "" means the current directory
	Env  []string      // extra KEY=VALUE pairs appended to the current environment
	Wait time.Duration // if > 0, bounds each run
}

// Transform runs the command over text. The output is passed through NormalizeOutput and must be valid UTF-8.
func (c Command) Transform(ctx context.Context, text string) (string, error) {
	if c.Path == "" {
		return "", errors.New("transform: command path is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", &ProcessError{Path: c.Path, Args: c.Args, Status: statusFromContextError(err), ExitCode: -1, Err: err}
	}
	if c.Wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Wait)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stdin = strings.NewReader(text)

	var stdout bytes.Buffer
	stderr := &lockedBuffer{}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return "", &ProcessError{Path: c.Path, Args: c.Args, Status: StatusFailedToStart, ExitCode: -1, Err: err}
	}
	waitErr := cmd.Wait()

	state := cmd.ProcessState
	pe := &ProcessError{Path: c.Path, Args: c.Args, ExitCode: -1, Stderr: stderr.String()}
	if state != nil {
		pe.ExitCode = state.ExitCode()
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			pe.Signal = ws.Signal().String()
		}
	}
	pe.Status = determineStatus(waitErr, state, ctx.Err())

	switch {
	case pe.Status == StatusTimedOut || pe.Status == StatusCanceled:
		pe.Err = ctx.Err()
		return "", pe
	case waitErr != nil || pe.ExitCode != 0:
		pe.Err = waitErr
		return "", pe
	}

	out := stdout.String()
	if !utf8.ValidString(out) {
		return "", fmt.Errorf("%w: %s", ErrInvalidUTF8, c.Path)
	}
	return NormalizeOutput(out), nil
}

// NormalizeOutput collapses "\r\r" to "\r". Some tools, when fed CRLF text through a pipe on Windows, write "\r\r\n" for each line ending.
func NormalizeOutput(s string) string {
	if !strings.Contains(s, "\r\r") {
		return s
	}
	return strings.ReplaceAll(s, "\r\r", "\r")
}

func determineStatus(waitErr error, state *os.ProcessState, ctxErr error) Status {
	if ctxErr != nil {
		return statusFromContextError(ctxErr)
	}

	switch {
	case waitErr == nil:
		return StatusCompleted
	case errors.Is(waitErr, context.DeadlineExceeded):
		return StatusTimedOut
	case errors.Is(waitErr, context.Canceled):
		return StatusCanceled
	default:
		if state != nil {
			if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				return StatusTerminated
			}
			return StatusCompleted
		}
		return StatusFailedToStart
	}
}

func statusFromContextError(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimedOut
	}
	return StatusCanceled
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
