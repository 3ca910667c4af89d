package cli

import (
	"encoding/json"

	qcli "github.com/codalotl/minedit/internal/q/cli"
	"github.com/codalotl/minedit/internal/toolconfig"
)

type configOutput struct {
	ToolPath    string               `json:"tool_path,omitempty"`
	ToolName    string               `json:"tool_name"`
	Args        []string             `json:"args"`
	Interpreter string               `json:"interpreter,omitempty"`
	Timeout     string               `json:"timeout"`
	CacheDir    string               `json:"cache_dir,omitempty"`
	Sources     []configSource       `json:"sources"`
	Tool        *toolconfig.Resolved `json:"tool,omitempty"`
	ToolCommand string               `json:"tool_command,omitempty"`
	ToolError   string               `json:"tool_error,omitempty"`
}

type configSource struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
}

// runConfig prints the effective configuration. A tool that cannot be resolved is reported in the output rather than as a failure, since fixing that is why one runs
// `minedit config`.
func runConfig(c *qcli.Context) error {
	cfg, report, err := toolconfig.LoadWithReport("")
	if err != nil {
		return err
	}

	out := configOutput{
		ToolPath:    cfg.ToolPath,
		ToolName:    cfg.ToolName,
		Args:        toolconfig.Args(cfg),
		Interpreter: cfg.Interpreter,
		Timeout:     cfg.Timeout.String(),
		CacheDir:    cfg.CacheDir,
		Sources:     []configSource{},
	}
	for _, s := range report.Sources {
		out.Sources = append(out.Sources, configSource{Type: s.SourceType, Path: s.SourceIdentifier})
	}
	if tool, err := toolconfig.Resolve(cfg, nil); err != nil {
		out.ToolError = err.Error()
	} else {
		out.Tool = &tool
		out.ToolCommand = tool.String()
	}

	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
