package cas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBytesHasher(t *testing.T) {
	h1 := NewBytesHasher([]byte("hello"))
	h2 := NewBytesHasher([]byte("hello"))
	h3 := NewBytesHasher([]byte("hello!"))

	assert.Equal(t, h1.Hash(), h2.Hash())
	assert.NotEqual(t, h1.Hash(), h3.Hash())
	assert.Len(t, h1.Hash(), 64)
}

func TestNewPartsHasher(t *testing.T) {
	assert.Equal(t, NewPartsHasher("ab", "c").Hash(), NewPartsHasher("ab", "c").Hash())
	assert.NotEqual(t, NewPartsHasher("ab", "c").Hash(), NewPartsHasher("a", "bc").Hash())
	assert.NotEqual(t, NewPartsHasher("a", "b").Hash(), NewPartsHasher("b", "a").Hash())
	assert.Len(t, NewPartsHasher().Hash(), 64)
}

type record struct {
	Output string `json:"output"`
}

func TestDB_StoreRetrieve(t *testing.T) {
	db := &DB{AbsRoot: t.TempDir()}
	h := NewBytesHasher([]byte("import sys\n"))

	var got record
	found, err := db.Retrieve(h, "reorder-1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Store(h, "reorder-1", record{Output: "import os\n"}))
	found, err = db.Retrieve(h, "reorder-1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "import os\n", got.Output)

	// Sharded layout.
	_, err = os.Stat(filepath.Join(db.AbsRoot, "reorder-1", h.Hash()[:2], h.Hash()[2:]))
	require.NoError(t, err)

	// Namespaces are separate.
	found, err = db.Retrieve(h, "reorder-2", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Overwrite.
	require.NoError(t, db.Store(h, "reorder-1", record{Output: "changed"}))
	_, err = db.Retrieve(h, "reorder-1", &got)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Output)
}

func TestDB_Validation(t *testing.T) {
	h := NewBytesHasher([]byte("x"))

	var empty DB
	assert.Error(t, empty.Store(h, "ns", record{}))

	db := &DB{AbsRoot: t.TempDir()}
	assert.Error(t, db.Store(nil, "ns", record{}))
	assert.Error(t, db.Store(h, "", record{}))
	assert.Error(t, db.Store(h, "a/b", record{}))
	assert.Error(t, db.Store(h, `a\b`, record{}))
	assert.Error(t, db.Store(stringHasher("ab"), "ns", record{}))
	_, err := db.Retrieve(stringHasher("../x"), "ns", &record{})
	assert.Error(t, err)
}

func TestDB_RetrieveCorrupt(t *testing.T) {
	db := &DB{AbsRoot: t.TempDir()}
	h := NewBytesHasher([]byte("x"))
	p := filepath.Join(db.AbsRoot, "ns", h.Hash()[:2], h.Hash()[2:])
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))

	require.NoError(t, os.WriteFile(p, []byte("not json"), 0o644))
	_, err := db.Retrieve(h, "ns", &record{})
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(p, []byte(`{"kind":"other","metadata":{}}`), 0o644))
	_, err = db.Retrieve(h, "ns", &record{})
	assert.ErrorContains(t, err, "unknown record kind")
}
