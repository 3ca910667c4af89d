// Package cli implements the minedit command line: detecting minimal changes between files, and reordering Python imports with an external tool while rewriting only the
// region that changed.
package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	qcli "github.com/codalotl/minedit/internal/q/cli"
	"github.com/codalotl/minedit/internal/simplelogger"
)

// Version is the minedit version. It is a var so builds can override it with -ldflags "-X .../internal/cli.Version=1.2.3".
var Version = "0.1.0"

// In/Out/Err override standard I/O. If nil, the os.Std* files are used.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code and an error, if any:
//   - 0 -> err == nil
//   - 1 -> a command failed, or `reorder --check` found files that would change
//   - 2 -> args parse error or misuse of flags
//
// In cases of errors, Run has already displayed an error message to opts.Err or Stderr.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		if opts.In != nil {
			in = opts.In
		}
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	// q/cli returns only an exit code, so stderr is teed to build the returned error.
	var stderrBuf bytes.Buffer
	exitCode := qcli.Run(context.Background(), newRootCommand(simplelogger.New()), qcli.Options{
		Args: argv,
		In:   in,
		Out:  out,
		Err:  io.MultiWriter(errW, &stderrBuf),
	})
	if exitCode == 0 {
		return 0, nil
	}

	msg := strings.TrimSpace(stderrBuf.String())
	if msg == "" {
		msg = "command failed"
	}
	return exitCode, errors.New(msg)
}
