// Package document is an in-memory text document with the properties minedit needs from a host editor's live buffer: revisions to detect concurrent modification,
// an undo/redo history, a cursor that is carried through edits, and a per-document lock so only one rewrite is in flight at a time.
//
// All offsets are byte offsets. All methods are safe for concurrent use.
package document

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	ErrStaleRevision = errors.New("document: stale revision")
	ErrInvalidRange  = errors.New("document: invalid range")
	ErrBusy          = errors.New("document: rewrite already in progress")
	ErrNothingToUndo = errors.New("document: nothing to undo")
	ErrNothingToRedo = errors.New("document: nothing to redo")
)

// DefaultMaxUndo is the undo depth of a Document created by New.
const DefaultMaxUndo = 1000

// Revision identifies a state of a Document's text. It increases with every applied edit, undo, and redo.
type Revision uint64

// Edit replaces the bytes [Start, End) with NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.Start == e.End && e.NewText == "":
		return fmt.Sprintf("NoOp(%d)", e.Start)
	case e.Start == e.End:
		return fmt.Sprintf("Insert(%d, %q)", e.Start, e.NewText)
	case e.NewText == "":
		return fmt.Sprintf("Delete[%d, %d)", e.Start, e.End)
	default:
		return fmt.Sprintf("Replace[%d, %d) with %q", e.Start, e.End, e.NewText)
	}
}

// Delta returns the change in document length caused by the edit.
func (e Edit) Delta() int {
	return len(e.NewText) - (e.End - e.Start)
}

// Snapshot is the text of a Document at a revision.
type Snapshot struct {
	Text     string
	Revision Revision
}

// change is an applied edit, recorded for undo and redo.
type change struct {
	start        int
	oldText      string
	newText      string
	cursorBefore int
}

// Document is an editable text. The zero value is not usable; use New.
type Document struct {
	name string

	mu      sync.Mutex
	text    string
	rev     Revision
	cursor  int
	undo    []change
	redo    []change
	maxUndo int

	busy atomic.Bool
}

// New returns a Document named name (typically a path) with the given text, at revision 1 with the cursor at offset 0.
func New(name, text string) *Document {
	return &Document{name: name, text: text, rev: 1, maxUndo: DefaultMaxUndo}
}

func (d *Document) Name() string {
	return d.name
}

func (d *Document) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func (d *Document) Revision() Revision {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rev
}

// Snapshot returns the current text and revision, read together.
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Snapshot{Text: d.text, Revision: d.rev}
}

func (d *Document) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// SetCursor moves the cursor. offset must be within [0, len(text)].
func (d *Document) SetCursor(offset int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < 0 || offset > len(d.text) {
		return fmt.Errorf("%w: cursor %d, text length %d", ErrInvalidRange, offset, len(d.text))
	}
	d.cursor = offset
	return nil
}

// Apply applies e if the document is still at revision rev, and returns the new revision. A no-op edit is accepted and does not create a revision or an undo entry.
//
// The cursor is carried through the edit: a cursor at or before e.Start stays put, a cursor at or after e.End moves by e.Delta(), and a cursor inside the replaced
// range moves to e.Start.
func (d *Document) Apply(rev Revision, e Edit) (Revision, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if rev != d.rev {
		return d.rev, fmt.Errorf("%w: edit made against %d, document is at %d", ErrStaleRevision, rev, d.rev)
	}
	if e.Start < 0 || e.Start > e.End || e.End > len(d.text) {
		return d.rev, fmt.Errorf("%w: [%d, %d) in text of length %d", ErrInvalidRange, e.Start, e.End, len(d.text))
	}

	oldText := d.text[e.Start:e.End]
	if oldText == e.NewText {
		return d.rev, nil
	}

	c := change{start: e.Start, oldText: oldText, newText: e.NewText, cursorBefore: d.cursor}
	d.applyLocked(c)

	d.undo = append(d.undo, c)
	if len(d.undo) > d.maxUndo {
		d.undo = d.undo[len(d.undo)-d.maxUndo:]
	}
	d.redo = nil

	return d.rev, nil
}

// Undo reverts the most recent edit and restores the cursor to where it was before that edit.
func (d *Document) Undo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.undo) == 0 {
		return ErrNothingToUndo
	}
	c := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]

	d.text = d.text[:c.start] + c.oldText + d.text[c.start+len(c.newText):]
	d.cursor = c.cursorBefore
	d.rev++

	d.redo = append(d.redo, c)
	return nil
}

// Redo reapplies the most recently undone edit.
func (d *Document) Redo() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.redo) == 0 {
		return ErrNothingToRedo
	}
	c := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]

	d.cursor = c.cursorBefore
	d.applyLocked(c)
	d.undo = append(d.undo, c)
	return nil
}

// UndoDepth returns the number of edits that can be undone.
func (d *Document) UndoDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.undo)
}

// Lock marks d as having a rewrite in progress. It fails with ErrBusy if another rewrite holds the lock. The returned unlock func is idempotent.
//
// Lock does not block edits; Apply's revision check is what keeps a slow rewrite from clobbering them.
func (d *Document) Lock() (unlock func(), err error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: %s", ErrBusy, d.name)
	}
	var once sync.Once
	return func() { once.Do(func() { d.busy.Store(false) }) }, nil
}

func (d *Document) applyLocked(c change) {
	end := c.start + len(c.oldText)
	d.text = d.text[:c.start] + c.newText + d.text[end:]

	switch {
	case d.cursor <= c.start:
		// stays
	case d.cursor >= end:
		d.cursor += len(c.newText) - len(c.oldText)
	default:
		d.cursor = c.start
	}
	d.rev++
}
