package rsecc

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EncodeBatch generates parity for many messages concurrently. Results are
// returned in input order. workers <= 0 uses GOMAXPROCS.
func (e *Encoder) EncodeBatch(ctx context.Context, messages [][]int, workers int) ([][]int, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]int, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range messages {
		if gctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			parity, err := e.GenerateParity(messages[i])
			if err != nil {
				return fmt.Errorf("message %d: %w", i, err)
			}
			results[i] = parity
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The loop may have stopped early on a cancelled parent context
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
