package rewrite

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/codalotl/minedit/internal/changes"
	"github.com/codalotl/minedit/internal/document"
	"github.com/codalotl/minedit/internal/q/health"
	"github.com/codalotl/minedit/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sortImports sorts the leading block of import lines, a stand-in for reorder-python-imports.
var sortImports = transform.Func(func(ctx context.Context, text string) (string, error) {
	lines := strings.SplitAfter(text, "\n")
	n := 0
	for n < len(lines) && (strings.HasPrefix(lines[n], "import ") || strings.HasPrefix(lines[n], "from ")) {
		n++
	}
	slices.Sort(lines[:n])
	return strings.Join(lines, ""), nil
})

const unsorted = "import sys\nimport os\n\nprint(os.getcwd(), sys.argv)\n"

func TestRewrite_Partial(t *testing.T) {
	doc := document.New("main.py", unsorted)
	cursor := strings.Index(unsorted, "print")
	require.NoError(t, doc.SetCursor(cursor))
	before := doc.Revision()

	res, err := Rewriter{Transformer: sortImports}.Rewrite(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "import os\nimport sys\n\nprint(os.getcwd(), sys.argv)\n", doc.Text())
	assert.True(t, res.Applied)
	assert.Equal(t, changes.PartialChange, res.Change.Kind)
	assert.Equal(t, changes.Region{Offset: 7, Length: 12}, res.Change.Original)
	assert.Equal(t, document.Edit{Start: 7, End: 19, NewText: "os\nimport sy"}, res.Edit)
	assert.Equal(t, "1:8-2:9", res.Range.String())
	assert.Equal(t, doc.Revision(), res.Revision)
	assert.Greater(t, res.Revision, before)

	// Text after the region did not move, so neither did the cursor.
	assert.Equal(t, cursor, doc.Cursor())

	require.NoError(t, doc.Undo())
	assert.Equal(t, unsorted, doc.Text())
}

func TestRewrite_NoChange(t *testing.T) {
	doc := document.New("ok.py", "import os\n")
	rev := doc.Revision()

	res, err := Rewriter{Transformer: sortImports}.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, changes.NoChange, res.Change.Kind)
	assert.Equal(t, document.Edit{}, res.Edit)
	assert.Equal(t, rev, res.Revision)
	assert.Equal(t, rev, doc.Revision())
	assert.Equal(t, 0, doc.UndoDepth())
}

func TestRewrite_Full(t *testing.T) {
	doc := document.New("x.py", "abc")
	upper := transform.Func(func(ctx context.Context, text string) (string, error) {
		return "XYZ!", nil
	})

	res, err := Rewriter{Transformer: upper}.Rewrite(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, changes.FullChange, res.Change.Kind)
	assert.Equal(t, document.Edit{Start: 0, End: 3, NewText: "XYZ!"}, res.Edit)
	assert.Equal(t, "XYZ!", doc.Text())
}

func TestRewrite_TransformError(t *testing.T) {
	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cause := errors.New("exit code 1: SyntaxError")
	failing := transform.Func(func(ctx context.Context, text string) (string, error) {
		return "", cause
	})
	doc := document.New("bad.py", "import (\n")
	rev := doc.Revision()

	_, err := Rewriter{Transformer: failing, Ctx: health.NewCtx(logger)}.Rewrite(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, rev, doc.Revision())
	assert.Contains(t, logs.String(), `msg="transform failed" doc=bad.py revision=1`)

	// The lock is released after a failure.
	unlock, err := doc.Lock()
	require.NoError(t, err)
	unlock()
}

func TestRewrite_StaleRevision(t *testing.T) {
	doc := document.New("race.py", unsorted)

	// The user types while the tool runs.
	typing := transform.Func(func(ctx context.Context, text string) (string, error) {
		_, err := doc.Apply(doc.Revision(), document.Edit{Start: len(text), End: len(text), NewText: "# edited\n"})
		require.NoError(t, err)
		return sortImports(ctx, text)
	})

	_, err := Rewriter{Transformer: typing}.Rewrite(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, document.ErrStaleRevision)
	assert.Equal(t, unsorted+"# edited\n", doc.Text())
}

func TestRewrite_Busy(t *testing.T) {
	doc := document.New("busy.py", unsorted)
	unlock, err := doc.Lock()
	require.NoError(t, err)
	defer unlock()

	called := false
	spy := transform.Func(func(ctx context.Context, text string) (string, error) {
		called = true
		return text, nil
	})
	_, err = Rewriter{Transformer: spy}.Rewrite(context.Background(), doc)
	assert.ErrorIs(t, err, document.ErrBusy)
	assert.False(t, called)
}

func TestRewrite_NilTransformer(t *testing.T) {
	_, err := Rewriter{}.Rewrite(context.Background(), document.New("x", ""))
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	res, err := Plan("line one\nline two\n", "line one\nline 2\n")
	require.NoError(t, err)
	assert.Equal(t, document.Edit{Start: 14, End: 17, NewText: "2"}, res.Edit)
	assert.Equal(t, 1, res.Range.Start.Line)
	assert.Equal(t, 5, res.Range.Start.Column)
	assert.Equal(t, 1, res.Range.End.Line)
	assert.Equal(t, 8, res.Range.End.Column)

	res, err = Plan("same", "same")
	require.NoError(t, err)
	assert.Equal(t, changes.NoChange, res.Change.Kind)

	// Inserting into an empty text is a full change covering nothing.
	res, err = Plan("", "import os\n")
	require.NoError(t, err)
	assert.Equal(t, changes.FullChange, res.Change.Kind)
	assert.Equal(t, document.Edit{Start: 0, End: 0, NewText: "import os\n"}, res.Edit)
}
