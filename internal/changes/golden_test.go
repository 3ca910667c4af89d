package changes

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// TestDetect_Golden runs every testdata/*.txtar archive. Each archive has the files:
//   - original, candidate: the two texts. The final newline that txtar adds to every file is removed, so write a blank line to end a text with "\n".
//   - want: the expected Change.String() for Detect.
//   - want-graphemes (optional): the expected Change.String() for DetectGraphemes, when it differs from want.
func TestDetect_Golden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			files := map[string]string{}
			for _, f := range ar.Files {
				files[f.Name] = strings.TrimSuffix(string(f.Data), "\n")
			}
			original, ok := files["original"]
			require.True(t, ok, "missing original")
			candidate, ok := files["candidate"]
			require.True(t, ok, "missing candidate")
			want, ok := files["want"]
			require.True(t, ok, "missing want")

			got := Detect(original, candidate)
			assert.Equal(t, want, got.String())
			require.NoError(t, got.Validate(original, candidate))
			assert.Equal(t, candidate, Apply(original, candidate, got))

			wantGraphemes, ok := files["want-graphemes"]
			if !ok {
				wantGraphemes = want
			}
			gotGraphemes := DetectGraphemes(original, candidate)
			assert.Equal(t, wantGraphemes, gotGraphemes.String())
			require.NoError(t, gotGraphemes.Validate(original, candidate))
			assert.Equal(t, candidate, Apply(original, candidate, gotGraphemes))
		})
	}
}
