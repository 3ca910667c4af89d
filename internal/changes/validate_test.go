package changes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	const o, c = "abcdefgh", "abcxyzh"

	tests := []struct {
		name    string
		change  Change
		wantErr string
	}{
		{"valid partial", partial(3, 4, 3, 3), ""},
		{"valid wider partial", partial(2, 5, 2, 4), ""},
		{"offsets differ", partial(3, 4, 2, 4), "region offsets differ"},
		{"negative length", partial(3, -1, 3, 3), "negative"},
		{"past end", partial(3, 6, 3, 3), "extends past end"},
		{"prefix mismatch", partial(4, 3, 4, 2), "prefixes before offset 4 differ"},
		{"suffix mismatch", partial(3, 3, 3, 3), "suffixes after"},
		{"partial without boundary", partial(0, 8, 0, 7), "no common prefix or suffix"},
		{"full must cover", full(7, 7), "does not cover original"},
		{"full candidate must cover", full(8, 6), "does not cover candidate"},
		{"no-change but different", Change{Kind: NoChange}, "texts differ"},
		{"unknown kind", Change{Kind: Kind(9)}, "unknown kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.change.Validate(o, c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}

	assert.NoError(t, full(8, 7).Validate(o, c))
	assert.NoError(t, Change{}.Validate("same", "same"))
	assert.ErrorContains(t, partial(1, 0, 1, 0).Validate("same", "same"), "texts are identical")
}
