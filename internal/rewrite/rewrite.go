// Package rewrite runs a document's text through a Transformer and applies the result back to the document as one minimal edit.
//
// Replacing only the changed region, instead of the whole text, keeps the cursor, undo history, and anything anchored outside the region intact.
package rewrite

import (
	"context"
	"errors"

	"github.com/codalotl/minedit/internal/changes"
	"github.com/codalotl/minedit/internal/document"
	"github.com/codalotl/minedit/internal/q/health"
	"github.com/codalotl/minedit/internal/textpos"
	"github.com/codalotl/minedit/internal/transform"
)

// Rewriter rewrites documents with Transformer.
type Rewriter struct {
	Transformer transform.Transformer

	// Logging for failed rewrites. Successful rewrites are logged at debug level.
	health.Ctx
}

// Result describes one rewrite.
type Result struct {
	Change   changes.Change
	Edit     document.Edit     // the edit derived from Change; the zero Edit for NoChange
	Range    textpos.Range     // positions of Edit in the text before the rewrite
	Revision document.Revision // the document's revision after the rewrite
	Applied  bool              // whether the document was modified
}

// Rewrite transforms doc's current text and applies the minimal edit that turns it into the transformer's output.
//
// Only one rewrite per document runs at a time; a second concurrent call fails with document.ErrBusy. The edit is applied against the revision the transformer saw, so if the
// document was edited while the transformer ran, Rewrite fails with document.ErrStaleRevision and leaves the document alone.
func (r Rewriter) Rewrite(ctx context.Context, doc *document.Document) (Result, error) {
	if r.Transformer == nil {
		return Result{}, errors.New("rewrite: nil Transformer")
	}
	unlock, err := doc.Lock()
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	snap := doc.Snapshot()
	candidate, err := r.Transformer.Transform(ctx, snap.Text)
	if err != nil {
		return Result{}, r.LogWrappedErr("transform failed", err, "doc", doc.Name(), "revision", snap.Revision)
	}

	res, err := Plan(snap.Text, candidate)
	if err != nil {
		return Result{}, r.LogWrappedErr("invalid change", err, "doc", doc.Name(), "revision", snap.Revision)
	}
	res.Revision = snap.Revision
	if res.Change.Kind == changes.NoChange {
		r.Debug("no change", "doc", doc.Name(), "revision", snap.Revision)
		return res, nil
	}

	rev, err := doc.Apply(snap.Revision, res.Edit)
	if err != nil {
		return Result{}, r.LogWrappedErr("apply failed", err, "doc", doc.Name(), "change", res.Change.String())
	}
	res.Revision = rev
	res.Applied = true
	r.Debug("rewrote document", "doc", doc.Name(), "change", res.Change.String(), "range", res.Range.String(), "revision", rev)
	return res, nil
}

// Plan computes the change from original to candidate and the edit that applies it, without touching any document. The change is validated before it is returned.
func Plan(original, candidate string) (Result, error) {
	c := changes.Detect(original, candidate)
	if err := c.Validate(original, candidate); err != nil {
		return Result{}, err
	}
	res := Result{Change: c}
	if c.Kind == changes.NoChange {
		return res, nil
	}

	res.Edit = document.Edit{Start: c.Original.Offset, End: c.Original.End(), NewText: c.Replacement(candidate)}
	rng, err := textpos.NewIndex(original, nil).Range(res.Edit.Start, res.Edit.End)
	if err != nil {
		return Result{}, err
	}
	res.Range = rng
	return res, nil
}
