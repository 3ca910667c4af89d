// Package toolconfig loads the import-sorting tool settings and resolves which executable to run.
//
// Settings cascade, lowest to highest priority: built-in defaults, ~/.minedit/config.json, the nearest .minedit/config.json above the working directory, then MINEDIT_* environment
// variables. An example config file:
//
//	{
//	    "tool_path": "~/venvs/tools/bin/reorder-python-imports",
//	    "args": ["--py38-plus", "--application-directories=.:src"],
//	    "timeout": "20s",
//	    "cache_dir": "~/.cache/minedit"
//	}
package toolconfig

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/codalotl/minedit/internal/q/cascade"
)

const (
	DefaultToolName = "reorder-python-imports"
	DefaultTimeout  = 30 * time.Second

	// RequiredArg makes the tool exit 0 when it rewrote its input, so a non-zero exit always means failure.
	RequiredArg = "--exit-zero-even-if-changed"

	// StdinArg tells the tool to read from stdin and write to stdout.
	StdinArg = "-"
)

// ConfigFile is the config file location, relative to the home directory or a project directory.
var ConfigFile = filepath.Join(".minedit", "config.json")

// Config holds the tool settings.
type Config struct {
	ToolPath    string        `json:"tool_path,omitempty"`   // explicit executable; leading ~ is expanded
	ToolName    string        `json:"tool_name"`             // executable name searched for when ToolPath is unset
	ExtraArgs   []string      `json:"args"`                  // appended after RequiredArg
	Interpreter string        `json:"interpreter,omitempty"` // Python interpreter whose bin directory holds the tool
	Timeout     time.Duration `json:"timeout"`               // per-run bound; 0 means none
	CacheDir    string        `json:"cache_dir,omitempty"`   // if set, tool outputs are cached here; leading ~ is expanded

	ToolPathProvidence cascade.Providence `json:"-"`
}

// Load reads the configuration for a project containing startDir. If startDir is "", the working directory is used.
func Load(startDir string) (Config, error) {
	cfg, _, err := LoadWithReport(startDir)
	return cfg, err
}

// LoadWithReport is Load, but also reports which sources contributed.
func LoadWithReport(startDir string) (Config, cascade.LoadReport, error) {
	var cfg Config
	report, err := cascade.New().
		WithDefaults(map[string]any{
			"tool_name": DefaultToolName,
			"args":      []string{},
			"timeout":   DefaultTimeout.String(),
		}).
		WithJSONFile(cascade.InUserConfigDirectory(ConfigFile)).
		WithNearestJSONFile(ConfigFile, startDir).
		WithEnv(map[string]string{
			"tool_path":   "MINEDIT_TOOL_PATH",
			"tool_name":   "MINEDIT_TOOL_NAME",
			"interpreter": "MINEDIT_INTERPRETER",
			"timeout":     "MINEDIT_TIMEOUT",
			"cache_dir":   "MINEDIT_CACHE_DIR",
		}).
		WithEnvList(map[string]string{"args": "MINEDIT_ARGS"}, splitArgs).
		StrictlyLoadWithReport(&cfg)
	if err != nil {
		return Config{}, report, err
	}
	return cfg, report, nil
}

// splitArgs splits an argument string the way a POSIX shell would, honoring quotes.
func splitArgs(s string) ([]string, error) {
	return shlex.Split(s, true)
}

// Args returns the full argument list for cfg: RequiredArg, then ExtraArgs, with duplicates removed keeping the first occurrence, then StdinArg.
func Args(cfg Config) []string {
	args := []string{RequiredArg}
	for _, a := range cfg.ExtraArgs {
		if a == StdinArg || slices.Contains(args, a) {
			continue
		}
		args = append(args, a)
	}
	return append(args, StdinArg)
}
