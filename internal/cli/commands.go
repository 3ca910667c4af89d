package cli

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	qcli "github.com/codalotl/minedit/internal/q/cli"
)

// Offset units accepted by `detect --units`.
const (
	unitsBytes     = "bytes"
	unitsRunes     = "runes"
	unitsUTF16     = "utf16"
	unitsGraphemes = "graphemes"
)

// Values of `reorder --color`.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

func newRootCommand(logger *slog.Logger) *qcli.Command {
	root := &qcli.Command{
		Name:  "minedit",
		Short: "minedit applies tool rewrites to files as minimal edits.",
	}

	detectCmd := &qcli.Command{
		Name:  "detect",
		Short: "Print the minimal change between two files as JSON.",
		Long:  "A path of - reads that text from stdin.",
		Use:   "<original> <candidate>",
		Args:  qcli.ExactArgs(2),
	}
	units := detectCmd.Flags().Choice("units", 'u', unitsBytes, []string{unitsBytes, unitsRunes, unitsUTF16, unitsGraphemes}, "Units of the reported offsets.")
	detectCmd.Run = func(c *qcli.Context) error {
		return runDetect(c, *units)
	}

	reorderCmd := &qcli.Command{
		Name:  "reorder",
		Short: "Reorder Python imports, rewriting only the changed region of each file.",
		Long: strings.TrimSpace(`
Runs reorder-python-imports on each file and lists the files it would change. Directories are searched for Python files. A path of - reads stdin and writes
the result to stdout.

The tool is found from --tool, then the tool_path setting, then next to the Python interpreter, then on PATH. Settings are read from ~/.minedit/config.json,
the nearest .minedit/config.json, and MINEDIT_* environment variables; run "minedit config" to see the result.`),
		Example: "minedit reorder --diff src/*.py\nminedit reorder --write --arg=--py38-plus app.py",
		Use:     "<path>...",
		Args:    qcli.MinimumArgs(1),
	}
	rf := reorderCmd.Flags()
	opts := reorderOptions{
		write:   rf.Bool("write", 'w', false, "Write changes back to the files."),
		check:   rf.Bool("check", 0, false, "Exit with status 1 if any file would change."),
		diff:    rf.Bool("diff", 'd', false, "Print a diff of each change."),
		context: rf.Int("context", 'C', 3, "Lines of context in diffs."),
		color:   rf.Choice("color", 0, colorAuto, []string{colorAuto, colorAlways, colorNever}, "Colorize diffs."),
		tool:    rf.String("tool", 't', "", "Path to the tool (overrides config)."),
		args:    rf.StringSlice("arg", 'a', nil, "Extra argument for the tool."),
		jobs:    rf.Int("jobs", 'j', runtime.NumCPU(), "Files processed in parallel."),
		noCache: rf.Bool("no-cache", 0, false, "Run the tool even if cache_dir has its output."),
	}
	reorderCmd.Run = func(c *qcli.Context) error {
		return runReorder(c, logger, opts)
	}

	configCmd := &qcli.Command{
		Name:  "config",
		Short: "Print the loaded configuration and the resolved tool as JSON.",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			return runConfig(c)
		},
	}

	versionCmd := &qcli.Command{
		Name:  "version",
		Short: "Print minedit version.",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			return writeStringln(c.Out, Version)
		},
	}

	root.AddCommand(detectCmd, reorderCmd, configCmd, versionCmd)
	return root
}

func writeStringln(w io.Writer, s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := fmt.Fprint(w, s)
	return err
}
