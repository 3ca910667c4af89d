package transform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codalotl/minedit/internal/q/cas"
)

// countingUpper uppercases text and counts calls.
func countingUpper(calls *int) Func {
	return func(_ context.Context, text string) (string, error) {
		*calls++
		return strings.ToUpper(text), nil
	}
}

func TestCached(t *testing.T) {
	var calls int
	db := &cas.DB{AbsRoot: t.TempDir()}
	c := Cached{Next: countingUpper(&calls), DB: db, Key: "upper v1"}

	for range 2 {
		out, err := c.Transform(context.Background(), "import os\n")
		require.NoError(t, err)
		assert.Equal(t, "IMPORT OS\n", out)
	}
	assert.Equal(t, 1, calls)

	// A different input or key misses.
	_, err := c.Transform(context.Background(), "import sys\n")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	c.Key = "upper v2"
	_, err = c.Transform(context.Background(), "import os\n")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	var calls int
	fail := Func(func(context.Context, string) (string, error) {
		calls++
		return "", errors.New("boom")
	})
	c := Cached{Next: fail, DB: &cas.DB{AbsRoot: t.TempDir()}, Key: "k"}

	for range 2 {
		_, err := c.Transform(context.Background(), "x")
		assert.EqualError(t, err, "boom")
	}
	assert.Equal(t, 2, calls)
}

func TestCached_CorruptRecordIsAMiss(t *testing.T) {
	var calls int
	db := &cas.DB{AbsRoot: t.TempDir()}
	c := Cached{Next: countingUpper(&calls), DB: db, Key: "k"}

	h := cas.NewPartsHasher("k", "x").Hash()
	p := filepath.Join(db.AbsRoot, CacheNamespace, h[:2], h[2:])
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("garbage"), 0o644))

	out, err := c.Transform(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "X", out)
	assert.Equal(t, 1, calls)

	// The miss repaired the record.
	_, err = c.Transform(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
