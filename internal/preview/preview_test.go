package preview

import (
	"strings"
	"testing"

	"github.com/codalotl/minedit/internal/changes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, original, candidate string, opts Options) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, Render(&b, original, candidate, changes.Detect(original, candidate), opts))
	return b.String()
}

func TestRender_Replace(t *testing.T) {
	got := render(t, "a\nb\nc\nd\ne\n", "a\nb\nC\nd\ne\n", Options{Name: "x.txt", Context: 1})
	assert.Equal(t, strings.Join([]string{
		"--- x.txt",
		"+++ x.txt",
		"@@ -2,3 +2,3 @@ partial-change 3:1-3:2 -> 3:1-3:2",
		" b",
		"-c",
		"+C",
		" d",
		"",
	}, "\n"), got)
}

func TestRender_Insert(t *testing.T) {
	got := render(t, "a\n", "a\nb\n", Options{})
	assert.Equal(t, "@@ -2,1 +2,2 @@ partial-change 2:1-2:1 -> 2:1-3:1\n+b\n c\n", got)
}

func TestRender_NoTrailingNewline(t *testing.T) {
	got := render(t, "x = 1", "x = 2", Options{Context: 3})
	assert.Equal(t, strings.Join([]string{
		"@@ -1,1 +1,1 @@ partial-change 1:5-1:6 -> 1:5-1:6",
		"-x = 1",
		noNewline,
		"+x = 2",
		noNewline,
		"",
	}, "\n"), got)
}

func TestRender_Full(t *testing.T) {
	got := render(t, "abc", "xyz\n", Options{})
	assert.Equal(t, "@@ -1,1 +1,1 @@ full-change\n-abc\n"+noNewline+"\n+xyz\n", got)
}

func TestRender_EmptySide(t *testing.T) {
	assert.Equal(t, "@@ -0,0 +1,1 @@ full-change\n+x\n", render(t, "", "x\n", Options{}))
	assert.Equal(t, "@@ -1,1 +0,0 @@ full-change\n-x\n", render(t, "x\n", "", Options{}))

	got := render(t, "a\n", "a\nb\n", Options{})
	assert.True(t, strings.HasPrefix(got, "@@ -1,0 +2,1 @@ "), got)
}

func TestRender_ContextClampsToText(t *testing.T) {
	original := "import sys\nimport os\n\nprint(os.getcwd())\n"
	candidate := "import os\nimport sys\n\nprint(os.getcwd())\n"
	got := render(t, original, candidate, Options{Context: 10})

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "@@ -1,4 +1,4 @@ partial-change 1:8-2:9 -> 1:8-2:10"), lines[0])
	assert.Equal(t, " ", lines[len(lines)-2])
	assert.Equal(t, " print(os.getcwd())", lines[len(lines)-1])
}

func TestRender_Color(t *testing.T) {
	got := render(t, "value = old_name\n", "value = new_name\n", Options{Name: "v.py", Color: true})

	assert.Contains(t, got, cyanBold+"--- v.py"+reset)
	assert.Contains(t, got, blackFG+pinkLine+"-value = "+reset+blackFG+pinkSpan+"old"+reset+blackFG+pinkLine+"_name"+reset)
	assert.Contains(t, got, blackFG+greenLine+"+value = "+reset+blackFG+greenSpan+"new"+reset+blackFG+greenLine+"_name"+reset)
}

func TestRender_NoChangeAndInvalid(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Render(&b, "same", "same", changes.Detect("same", "same"), Options{Name: "s"}))
	assert.Empty(t, b.String())

	bogus := changes.Change{Kind: changes.PartialChange, Original: changes.Region{Offset: 0, Length: 9}, Candidate: changes.Region{Offset: 0, Length: 1}}
	assert.Error(t, Render(&b, "abc", "abd", bogus, Options{}))
	assert.Empty(t, b.String())
}

func TestDiffLines(t *testing.T) {
	got := diffLines("keep\nold one\ngone\n", "keep\nnew one\n")
	require.Len(t, got, 4)
	assert.Equal(t, line{op: opEqual, text: "keep\n"}, got[0])
	assert.Equal(t, opDelete, got[1].op)
	assert.Equal(t, "old one\n", got[1].text)
	assert.Equal(t, []span{{text: "old", changed: true}, {text: " one"}}, got[1].spans)
	assert.Equal(t, line{op: opDelete, text: "gone\n"}, got[2])
	assert.Equal(t, opInsert, got[3].op)
	assert.Equal(t, []span{{text: "new", changed: true}, {text: " one"}}, got[3].spans)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a\n", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a\n", "\n"}, splitLines("a\n\n"))
}
