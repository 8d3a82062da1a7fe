package dependencies

import (
	"context"
	"sync"

	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds TraverseAll when no limit is given
const DefaultConcurrency = 8

// TraverseAll runs Traverse for every origin on the same graph snapshot using
// up to limit goroutines. The first error cancels the remaining work and is
// returned; a cancelled ctx stops scheduling new traversals.
func TraverseAll(ctx context.Context, origins []workspace.Name, graph workspace.Graph, breakOnCycle bool, limit int) (map[workspace.Name]*OrderedDependencyMap, error) {
	return traverseAll(ctx, origins, limit, func(origin workspace.Name) (*OrderedDependencyMap, error) {
		return Traverse(origin, graph, breakOnCycle)
	})
}

func traverseAll(ctx context.Context, origins []workspace.Name, limit int, traverse func(workspace.Name) (*OrderedDependencyMap, error)) (map[workspace.Name]*OrderedDependencyMap, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	eg, groupCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	results := make(map[workspace.Name]*OrderedDependencyMap, len(origins))
	var mu sync.Mutex

	for _, origin := range origins {
		if groupCtx.Err() != nil {
			break
		}
		origin := origin
		eg.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			deps, err := traverse(origin)
			if err != nil {
				return err
			}

			mu.Lock()
			results[origin] = deps
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
