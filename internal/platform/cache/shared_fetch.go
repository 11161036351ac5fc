package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedFetchTimeout bounds one upstream call shared by concurrent callers.
const sharedFetchTimeout = 2 * time.Minute

// shareFetch runs fetch once per key for all concurrent callers.
// The fetch is detached from any single caller's cancellation; a caller whose
// ctx ends stops waiting with ctx.Err() while the others still get the result.
func shareFetch[T any](ctx context.Context, group *singleflight.Group, key string, fetch func(context.Context) (T, error)) (T, error) {
	ch := group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		return v, err
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
