package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, the os.Std* files are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler. Flag values are read through the pointers returned when the flags were defined.
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes a command tree as a CLI program and returns a process exit code: 0 on success, 2 for usage errors, 1 (or an ExitCoder's code) for handler errors.
func Run(ctx context.Context, root *Command, opts Options) int {
	if root == nil || root.Name == "" {
		panic("cli: Run needs a named root command")
	}

	c := &Context{Context: ctx, In: opts.In, Out: opts.Out, Err: opts.Err}
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Err == nil {
		c.Err = os.Stderr
	}

	selected, args, err := parseArgv(root, opts.Args, c.Out)
	switch {
	case errors.Is(err, errHelpPrinted):
		return 0
	case err != nil:
		printUsageError(root, selected, err, c.Err)
		return 2
	case selected.Run == nil && len(args) == 0:
		printUsageError(root, selected, usageErrorf("missing required subcommand"), c.Err)
		return 2
	case selected.Run == nil:
		printUsageError(root, selected, usageErrorf("unknown subcommand: %s", args[0]), c.Err)
		return 2
	}

	if selected.Args != nil {
		if err := selected.Args(args); err != nil {
			var ec ExitCoder
			if !errors.As(err, &ec) {
				// Args errors are usage errors unless they say otherwise.
				err = UsageError{Message: err.Error()}
			}
			return exitFor(root, selected, err, c.Err)
		}
	}

	c.Command = selected
	c.Args = args
	if err := selected.Run(c); err != nil {
		return exitFor(root, selected, err, c.Err)
	}
	return 0
}

var errHelpPrinted = errors.New("help printed")

// parseArgv walks argv, descending into subcommands until the first positional arg, and sets flags as it goes. "--" ends flag parsing.
func parseArgv(root *Command, argv []string, out io.Writer) (*Command, []string, error) {
	selected := root
	selecting := true
	var positional []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]
		switch {
		case token == "--":
			return selected, append(positional, argv[i+1:]...), nil

		case token == "-h" || token == "--help":
			writeHelp(out, root, selected)
			return selected, nil, errHelpPrinted

		case isFlagToken(token):
			var next *string
			if i+1 < len(argv) {
				next = &argv[i+1]
			}
			consumed, err := parseFlagToken(selected.activeFlags(), token, next)
			if err != nil {
				return selected, nil, err
			}
			if consumed {
				i++
			}

		default:
			if selecting {
				if child := selected.childByToken(token); child != nil {
					selected = child
					continue
				}
				selecting = false
			}
			positional = append(positional, token)
		}
	}
	return selected, positional, nil
}

// isFlagToken reports whether token looks like a flag. "-" alone is a positional arg (conventionally stdin).
func isFlagToken(token string) bool {
	return strings.HasPrefix(token, "-") && token != "-"
}

// parseFlagToken handles --name, --name=value, -n, -n=value, -name, and -name=value.
func parseFlagToken(active activeFlags, token string, next *string) (bool, error) {
	body := strings.TrimPrefix(token, "-")
	long := strings.HasPrefix(body, "-")
	body = strings.TrimPrefix(body, "-")

	name, value, hasValue := strings.Cut(body, "=")
	var valuePtr *string
	if hasValue {
		valuePtr = &value
	}
	if long || len([]rune(name)) > 1 {
		return active.parseAndSet(token, name, 0, valuePtr, next)
	}
	if name == "" {
		return false, usageErrorf("unknown flag: %s", token)
	}
	return active.parseAndSet(token, "", []rune(name)[0], valuePtr, next)
}

// exitFor reports err and returns its exit code. Usage errors (code 2) also print help.
func exitFor(root, cmd *Command, err error, errOut io.Writer) int {
	code := 1
	var ec ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	switch code {
	case 0:
		return 0
	case 2:
		printUsageError(root, cmd, err, errOut)
	default:
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
	}
	return code
}

func printUsageError(root, cmd *Command, err error, errOut io.Writer) {
	if msg := usageErrorMessage(err); msg != "" {
		fmt.Fprintln(errOut, msg)
		fmt.Fprintln(errOut)
	}
	writeHelp(errOut, root, cmd)
}

func usageErrorMessage(err error) string {
	var ue UsageError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue):
		return ue.Message
	default:
		return err.Error()
	}
}
