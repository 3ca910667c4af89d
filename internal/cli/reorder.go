package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"tailscale.com/atomicfile"

	"github.com/codalotl/minedit/internal/document"
	"github.com/codalotl/minedit/internal/preview"
	"github.com/codalotl/minedit/internal/pyfiles"
	"github.com/codalotl/minedit/internal/q/cas"
	"github.com/codalotl/minedit/internal/q/cascade"
	qcli "github.com/codalotl/minedit/internal/q/cli"
	"github.com/codalotl/minedit/internal/q/health"
	"github.com/codalotl/minedit/internal/rewrite"
	"github.com/codalotl/minedit/internal/toolconfig"
	"github.com/codalotl/minedit/internal/transform"
)

type reorderOptions struct {
	write   *bool
	check   *bool
	diff    *bool
	context *int
	color   *string
	tool    *string
	args    *[]string
	jobs    *int
	noCache *bool
}

// fileResult is the outcome of reordering one file.
type fileResult struct {
	path    string
	changed bool
	text    string       // the rewritten text
	diff    bytes.Buffer // rendered preview, if requested
	err     error
}

func runReorder(c *qcli.Context, logger *slog.Logger, opts reorderOptions) error {
	if *opts.jobs < 1 {
		return qcli.UsageError{Message: fmt.Sprintf("invalid --jobs: must be > 0 (got %d)", *opts.jobs)}
	}
	if *opts.context < 0 {
		return qcli.UsageError{Message: fmt.Sprintf("invalid --context: must be >= 0 (got %d)", *opts.context)}
	}
	files, err := pyfiles.Collect(c.Args)
	if err != nil {
		return err
	}
	stdinCount := 0
	for _, p := range files {
		if p == pyfiles.StdinPath {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return qcli.UsageError{Message: "- may be given only once"}
	}

	hc := health.NewCtx(logger)
	cfg, err := toolconfig.Load("")
	if err != nil {
		return hc.LogWrappedErr("load config", err)
	}
	if *opts.tool != "" {
		cfg.ToolPath = *opts.tool
	}
	cfg.ExtraArgs = append(cfg.ExtraArgs, *opts.args...)

	tool, err := toolconfig.Resolve(cfg, nil)
	if errors.Is(err, toolconfig.ErrToolNotFound) {
		return hc.LogErr(health.WrapHuman(
			fmt.Sprintf("could not find %s: install it, or set tool_path in %s, MINEDIT_TOOL_PATH, or --tool", cfg.ToolName, toolconfig.ConfigFile),
			"resolve tool", err))
	} else if err != nil {
		return hc.LogWrappedErr("resolve tool", err)
	}
	hc = hc.With("tool", tool.Path)
	hc.Debug("resolved tool", "command", tool.String(), "source", string(tool.Source))

	var tr transform.Transformer = tool.Command()
	if cfg.CacheDir != "" && !*opts.noCache {
		dir, err := filepath.Abs(cascade.ExpandPath(cfg.CacheDir))
		if err != nil {
			return hc.LogWrappedErr("cache dir", err, "cache_dir", cfg.CacheDir)
		}
		tr = transform.Cached{Next: tr, DB: &cas.DB{AbsRoot: dir}, Key: tool.Fingerprint(), Ctx: hc}
	}
	rw := rewrite.Rewriter{Transformer: tr, Ctx: hc}
	color := useColor(*opts.color, c.Out)

	results := make([]*fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(*opts.jobs)
	for i, path := range files {
		res := &fileResult{path: path}
		results[i] = res
		g.Go(func() error {
			res.err = reorderFile(c, rw, res, *opts.diff, preview.Options{Name: displayName(path), Context: *opts.context, Color: color})
			return nil
		})
	}
	_ = g.Wait()

	var changed, failed int
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(c.Err, "%s: %v\n", displayName(res.path), res.err)
			continue
		}
		if res.changed {
			changed++
		}
		if err := reportFile(c, res, opts); err != nil {
			return err
		}
	}

	switch {
	case failed > 0:
		return qcli.ExitError{Code: 1, Err: fmt.Errorf("%d of %d files failed", failed, len(results))}
	case *opts.check && changed > 0:
		return qcli.ExitError{Code: 1, Err: fmt.Errorf("%d %s would be reordered", changed, plural(changed, "file", "files"))}
	}
	return nil
}

// reorderFile runs the tool over one file's text. With write set, a changed file is saved atomically with its original permissions.
func reorderFile(c *qcli.Context, rw rewrite.Rewriter, res *fileResult, wantDiff bool, popts preview.Options) error {
	original, err := readInput(c, res.path)
	if err != nil {
		return err
	}
	doc := document.New(res.path, original)
	r, err := rw.Rewrite(c.Context, doc)
	if err != nil {
		// Rewrite has logged the full error; the tool's own message reads better on a terminal.
		var pe *transform.ProcessError
		if errors.As(err, &pe) {
			return pe
		}
		return err
	}
	res.text = doc.Text()
	res.changed = r.Applied
	if res.changed && wantDiff {
		if err := preview.Render(&res.diff, original, res.text, r.Change, popts); err != nil {
			return err
		}
	}
	return nil
}

// reportFile prints one file's outcome, and with --write saves a changed file. Unless checking or diffing, the stdin text is written to stdout whether or not it
// changed.
func reportFile(c *qcli.Context, res *fileResult, opts reorderOptions) error {
	if res.path == pyfiles.StdinPath && !*opts.check && !*opts.diff {
		_, err := io.WriteString(c.Out, res.text)
		return err
	}
	if !res.changed {
		return nil
	}
	if *opts.diff {
		if _, err := c.Out.Write(res.diff.Bytes()); err != nil {
			return err
		}
	} else if err := writeStringln(c.Out, displayName(res.path)); err != nil {
		return err
	}
	if !*opts.write || *opts.check || res.path == pyfiles.StdinPath {
		return nil
	}

	perm := os.FileMode(0644)
	if fi, err := os.Stat(res.path); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := atomicfile.WriteFile(res.path, []byte(res.text), perm); err != nil {
		return qcli.ExitError{Code: 1, Err: fmt.Errorf("write %s: %w", res.path, err)}
	}
	return nil
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}

func displayName(path string) string {
	if path == pyfiles.StdinPath {
		return "<stdin>"
	}
	return path
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
