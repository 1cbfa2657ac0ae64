package quantization

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cqt/internal/arena"
	"github.com/hupe1980/cqt/pixel"
)

// Split divides c along its dominant axis into a low and a high cluster.
// Both halves are non-empty. c must have statistics and at least two pixels.
func Split(c *Cluster) (low, high *Cluster, err error) {
	if c.stats == nil || len(c.pixels) < 2 {
		return nil, nil, ErrDegenerateCluster
	}

	scores := Project(c.pixels, c.stats.Mean, c.stats.Eigenvector)
	sorted, sortedScores := SortByScore(c.pixels, scores)
	idx := CutPoint(sortedScores)

	return NewCluster(sorted[:idx+1 : idx+1]), NewCluster(sorted[idx+1:]), nil
}

// Partition splits pixels into at most target clusters. The returned
// clusters are in working-set order: a split removes its parent and appends
// the two children at the end.
//
// Fewer than target clusters are returned, without error, when every cluster
// is a single color or the safeguard runs out. The pixel slice is copied.
func Partition(ctx context.Context, pixels []pixel.Pixel, target int, opts ...Option) ([]*Cluster, error) {
	if target < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}
	if len(pixels) == 0 {
		return nil, ErrEmptyInput
	}
	o := applyOptions(opts)

	set := arena.New[*Cluster](2 * target)
	set.Alloc(NewCluster(append([]pixel.Pixel(nil), pixels...)))

	for safeguard := 0; set.Len() < target && safeguard <= target; safeguard++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ids := set.IDs()
		clusters := set.Values()
		if err := computeStats(ctx, clusters, o.parallelism); err != nil {
			return nil, err
		}

		i := SelectCluster(clusters)
		if i < 0 {
			break
		}

		low, high, err := Split(set.MustGet(ids[i]))
		if err != nil {
			return nil, err
		}
		if err := set.Free(ids[i]); err != nil {
			return nil, err
		}
		set.Alloc(low)
		set.Alloc(high)

		if o.observer != nil {
			o.observer(set.Len(), target)
		}
	}

	return set.Values(), nil
}

// computeStats fills in missing statistics. Clusters are disjoint, so each
// goroutine owns the cluster it writes.
func computeStats(ctx context.Context, clusters []*Cluster, parallelism int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, c := range clusters {
		if c.stats != nil || len(c.pixels) < 2 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.ensureStats()
			return nil
		})
	}
	return g.Wait()
}
