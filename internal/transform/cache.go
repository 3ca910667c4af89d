package transform

import (
	"context"

	"github.com/codalotl/minedit/internal/q/cas"
	"github.com/codalotl/minedit/internal/q/health"
)

// CacheNamespace is the cas namespace of cached outputs. Bump it if the record format changes.
const CacheNamespace = "transform-1"

// Cached wraps Next with a content-addressed cache of its outputs. A record is keyed by Key and the input text, so Key must change whenever Next could produce a
// different output for the same input (ex: a different tool binary or different arguments).
//
// Cache failures never fail a transform: a broken record is treated as a miss, and a failed store is only logged.
type Cached struct {
	Next Transformer
	DB   *cas.DB
	Key  string

	health.Ctx
}

type cachedOutput struct {
	Output string `json:"output"`
}

func (c Cached) Transform(ctx context.Context, text string) (string, error) {
	h := cas.NewPartsHasher(c.Key, text)

	var rec cachedOutput
	found, err := c.DB.Retrieve(h, CacheNamespace, &rec)
	if err != nil {
		c.LogWrappedErr("cache read failed", err, "hash", h.Hash())
	} else if found {
		c.Debug("cache hit", "hash", h.Hash())
		return rec.Output, nil
	}

	out, err := c.Next.Transform(ctx, text)
	if err != nil {
		return "", err
	}
	if err := c.DB.Store(h, CacheNamespace, cachedOutput{Output: out}); err != nil {
		c.LogWrappedErr("cache write failed", err, "hash", h.Hash())
	}
	return out, nil
}
