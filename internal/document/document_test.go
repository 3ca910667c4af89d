package document

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	d := New("a.py", "import sys\nimport os\n")
	require.Equal(t, Revision(1), d.Revision())

	rev, err := d.Apply(1, Edit{Start: 7, End: 19, NewText: "os\nimport sy"})
	require.NoError(t, err)
	assert.Equal(t, Revision(2), rev)
	assert.Equal(t, "import os\nimport sys\n", d.Text())
	assert.Equal(t, 1, d.UndoDepth())
	assert.Equal(t, Snapshot{Text: "import os\nimport sys\n", Revision: 2}, d.Snapshot())
}

func TestApply_Errors(t *testing.T) {
	d := New("a.py", "abc")

	_, err := d.Apply(2, Edit{Start: 0, End: 1, NewText: "x"})
	assert.ErrorIs(t, err, ErrStaleRevision)

	for _, e := range []Edit{{Start: -1, End: 0}, {Start: 2, End: 1}, {Start: 0, End: 4}} {
		_, err := d.Apply(1, e)
		assert.ErrorIs(t, err, ErrInvalidRange, "%v", e)
	}

	assert.Equal(t, "abc", d.Text())
	assert.Equal(t, Revision(1), d.Revision())
}

func TestApply_NoOp(t *testing.T) {
	d := New("a.py", "abc")
	rev, err := d.Apply(1, Edit{Start: 1, End: 2, NewText: "b"})
	require.NoError(t, err)
	assert.Equal(t, Revision(1), rev)
	assert.Equal(t, 0, d.UndoDepth())
}

func TestCursorCarriedThroughEdit(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		edit   Edit
		want   int
	}{
		{"before edit", 1, Edit{Start: 3, End: 5, NewText: "XYZW"}, 1},
		{"at edit start", 3, Edit{Start: 3, End: 5, NewText: "XYZW"}, 3},
		{"inside edit", 4, Edit{Start: 3, End: 5, NewText: "XYZW"}, 3},
		{"at edit end", 5, Edit{Start: 3, End: 5, NewText: "XYZW"}, 7},
		{"after growing edit", 8, Edit{Start: 3, End: 5, NewText: "XYZW"}, 10},
		{"after shrinking edit", 8, Edit{Start: 3, End: 5}, 6},
		{"after insertion", 8, Edit{Start: 0, End: 0, NewText: "##"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New("f", "0123456789")
			require.NoError(t, d.SetCursor(tt.cursor))
			_, err := d.Apply(d.Revision(), tt.edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Cursor())
		})
	}
}

func TestSetCursor_OutOfRange(t *testing.T) {
	d := New("f", "abc")
	assert.ErrorIs(t, d.SetCursor(4), ErrInvalidRange)
	assert.ErrorIs(t, d.SetCursor(-1), ErrInvalidRange)
	assert.NoError(t, d.SetCursor(3))
}

func TestUndoRedo(t *testing.T) {
	d := New("f", "hello world")
	require.NoError(t, d.SetCursor(11))

	_, err := d.Apply(1, Edit{Start: 0, End: 5, NewText: "goodbye"})
	require.NoError(t, err)
	require.Equal(t, "goodbye world", d.Text())
	require.Equal(t, 13, d.Cursor())

	require.NoError(t, d.Undo())
	assert.Equal(t, "hello world", d.Text())
	assert.Equal(t, 11, d.Cursor())
	assert.Equal(t, Revision(3), d.Revision())
	assert.ErrorIs(t, d.Undo(), ErrNothingToUndo)

	require.NoError(t, d.Redo())
	assert.Equal(t, "goodbye world", d.Text())
	assert.Equal(t, 13, d.Cursor())
	assert.ErrorIs(t, d.Redo(), ErrNothingToRedo)

	// A new edit clears the redo stack.
	require.NoError(t, d.Undo())
	_, err = d.Apply(d.Revision(), Edit{Start: 11, End: 11, NewText: "!"})
	require.NoError(t, err)
	assert.ErrorIs(t, d.Redo(), ErrNothingToRedo)
	assert.Equal(t, "hello world!", d.Text())
}

func TestUndoDepthIsBounded(t *testing.T) {
	d := New("f", "")
	d.maxUndo = 3
	for i := 0; i < 5; i++ {
		_, err := d.Apply(d.Revision(), Edit{Start: i, End: i, NewText: "x"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, d.UndoDepth())
}

func TestLock(t *testing.T) {
	d := New("a.py", "")

	unlock, err := d.Lock()
	require.NoError(t, err)

	_, err = d.Lock()
	assert.ErrorIs(t, err, ErrBusy)

	unlock()
	unlock()

	unlock2, err := d.Lock()
	require.NoError(t, err)
	unlock2()
}

func TestLock_Concurrent(t *testing.T) {
	d := New("a.py", "")

	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0
	start := make(chan struct{})
	hold := make(chan struct{})

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			unlock, err := d.Lock()
			if err != nil {
				return
			}
			mu.Lock()
			acquired++
			mu.Unlock()
			<-hold
			unlock()
		}()
	}
	close(start)
	close(hold)
	wg.Wait()

	// Every goroutine either held the lock alone or saw ErrBusy; at least one got it.
	assert.GreaterOrEqual(t, acquired, 1)
}

func TestEditString(t *testing.T) {
	assert.Equal(t, "NoOp(2)", Edit{Start: 2, End: 2}.String())
	assert.Equal(t, `Insert(2, "x")`, Edit{Start: 2, End: 2, NewText: "x"}.String())
	assert.Equal(t, "Delete[1, 3)", Edit{Start: 1, End: 3}.String())
	assert.Equal(t, `Replace[1, 3) with "x"`, Edit{Start: 1, End: 3, NewText: "x"}.String())
	assert.Equal(t, -1, Edit{Start: 1, End: 3, NewText: "x"}.Delta())
}
