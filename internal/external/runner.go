package external

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds a single external command.
	DefaultTimeout = 10 * time.Minute

	// maxOutput is how much of a failing command's output ends up in the error.
	maxOutput = 200
)

// ErrTimeout is returned when a command outlives its timeout.
var ErrTimeout = errors.New("command timed out")

// Runner starts external programs. The sweep engine never uses it; only the
// maintenance steps around it (WSL shutdown, Hyper-V service, VHD compaction).
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed (exit code %d): %s", e.Command, e.Code, e.Output)
	}
	return fmt.Sprintf("%s failed (exit code %d)", e.Command, e.Code)
}

// Exec runs commands on the host.
type Exec struct {
	Timeout time.Duration
	Log     zerolog.Logger
}

var _ Runner = Exec{}

// Run executes name with args and returns its combined output. The process
// is executed directly, never through a shell.
func (e Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdline := CommandLine(name, args...)
	e.Log.Debug().Str("command", cmdline).Dur("timeout", timeout).Msg("running")

	start := time.Now()
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	e.Log.Debug().Str("command", cmdline).Dur("took", time.Since(start)).Err(err).Msg("finished")
	if err != nil {
		return string(output), handleExitError(ctx, cmdline, timeout, err, output)
	}
	return string(output), nil
}

// handleExitError wraps an exec error with the exit code and a truncated
// copy of the output.
func handleExitError(ctx context.Context, cmdline string, timeout time.Duration, err error, output []byte) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w after %s", cmdline, ErrTimeout, timeout)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", cmdline, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command: cmdline,
			Code:    exitErr.ExitCode(),
			Output:  truncate(strings.TrimSpace(string(output)), maxOutput),
		}
	}
	return fmt.Errorf("%s: %w", cmdline, err)
}

// truncate cuts s to at most n bytes on a UTF-8 boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CommandLine renders a command for logs, quoting arguments with spaces.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{name}, args...) {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
