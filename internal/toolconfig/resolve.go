package toolconfig

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/codalotl/minedit/internal/q/cascade"
	"github.com/codalotl/minedit/internal/transform"
)

// ErrToolNotFound is returned by Resolve when no executable could be located.
var ErrToolNotFound = errors.New("toolconfig: tool not found")

// Source says how a tool path was resolved.
type Source string

const (
	SourceConfig      Source = "config"      // Config.ToolPath
	SourceInterpreter Source = "interpreter" // next to the Python interpreter
	SourcePath        Source = "path"        // Config.ToolName on PATH
)

// Resolved is a tool ready to run.
type Resolved struct {
	Path   string        `json:"path"`
	Source Source        `json:"source"`
	Args   []string      `json:"args"`
	Wait   time.Duration `json:"-"`
}

// LookPathFunc finds an executable by name. exec.LookPath is the usual implementation.
type LookPathFunc func(file string) (string, error)

// Resolve finds the tool to run for cfg, trying in order:
//  1. cfg.ToolPath, if set. It is trusted as-is; a missing file surfaces when the tool is run.
//  2. cfg.ToolName in the directory of the Python interpreter (cfg.Interpreter, else python3 or python on PATH). This finds tools installed into the same virtualenv.
//  3. cfg.ToolName on PATH.
//
// If lookPath is nil, exec.LookPath is used.
func Resolve(cfg Config, lookPath LookPathFunc) (Resolved, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	name := cfg.ToolName
	if name == "" {
		name = DefaultToolName
	}
	r := Resolved{Args: Args(cfg), Wait: cfg.Timeout}

	if cfg.ToolPath != "" {
		r.Path = cascade.ExpandPath(cfg.ToolPath)
		r.Source = SourceConfig
		return r, nil
	}

	if interp := findInterpreter(cfg.Interpreter, lookPath); interp != "" {
		if p, ok := executableIn(filepath.Dir(interp), name); ok {
			r.Path = p
			r.Source = SourceInterpreter
			return r, nil
		}
	}

	if p, err := lookPath(name); err == nil {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		r.Path = p
		r.Source = SourcePath
		return r, nil
	}

	return Resolved{}, fmt.Errorf("%w: %q is not configured, next to a python interpreter, or on PATH", ErrToolNotFound, name)
}

// Command returns a transform.Command running the resolved tool.
func (r Resolved) Command() transform.Command {
	return transform.Command{Path: r.Path, Args: r.Args, Wait: r.Wait}
}

// Fingerprint identifies what the tool would do with its input: the command line plus the size and modification time of the executable, so reinstalling or
// upgrading the tool changes it. It is the cache key for tool outputs.
func (r Resolved) Fingerprint() string {
	fp := r.String()
	if fi, err := os.Stat(r.Path); err == nil {
		fp += fmt.Sprintf("\x00%d\x00%d", fi.Size(), fi.ModTime().UnixNano())
	}
	return fp
}

// String renders r as a shell-like command line.
func (r Resolved) String() string {
	parts := make([]string, 0, len(r.Args)+1)
	for _, s := range append([]string{r.Path}, r.Args...) {
		if s == "" || strings.ContainsAny(s, " \t\"'\\$") {
			s = "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// findInterpreter returns the configured interpreter (expanded; bare names looked up on PATH), else the first of python3 and python on PATH, else "".
func findInterpreter(configured string, lookPath LookPathFunc) string {
	if configured != "" {
		if strings.ContainsRune(configured, filepath.Separator) || strings.HasPrefix(configured, "~") || strings.ContainsRune(configured, '/') {
			return cascade.ExpandPath(configured)
		}
		if p, err := lookPath(configured); err == nil {
			return p
		}
		return ""
	}
	for _, name := range []string{"python3", "python"} {
		if p, err := lookPath(name); err == nil {
			return p
		}
	}
	return ""
}

// executableIn reports whether dir/name (or dir/name.exe on Windows) is an executable regular file.
func executableIn(dir string, name string) (string, bool) {
	candidates := []string{filepath.Join(dir, name)}
	if runtime.GOOS == "windows" {
		candidates = append(candidates, filepath.Join(dir, name+".exe"), filepath.Join(dir, "Scripts", name+".exe"))
	}
	for _, c := range candidates {
		fi, err := os.Stat(c)
		if err != nil || fi.IsDir() {
			continue
		}
		if runtime.GOOS != "windows" && fi.Mode().Perm()&0o111 == 0 {
			continue
		}
		return c, true
	}
	return "", false
}
