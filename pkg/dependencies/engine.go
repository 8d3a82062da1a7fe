package dependencies

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jpmorganchase/modular-sub002/pkg/observability"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// DefaultCacheSize is the number of traversals an Engine keeps by default
const DefaultCacheSize = 1024

type direction int

const (
	forward direction = iota
	backward
)

type traversalKey struct {
	origin       workspace.Name
	breakOnCycle bool
	direction    direction
}

type traversalResult struct {
	deps *OrderedDependencyMap
	err  error
}

// Engine answers queries against one graph snapshot. Traversals are
// memoized in an LRU cache, which is valid because the snapshot is never
// modified. An Engine is safe for concurrent use.
type Engine struct {
	graph   workspace.Graph
	cache   *lru.Cache[traversalKey, traversalResult]
	metrics *observability.Metrics
	logger  *observability.Logger

	invertOnce sync.Once
	inverted   workspace.Graph
}

// EngineOption configures an Engine
type EngineOption func(*engineOptions)

type engineOptions struct {
	cacheSize int
	metrics   *observability.Metrics
	logger    *observability.Logger
}

// WithCacheSize sets the number of cached traversals
func WithCacheSize(size int) EngineOption {
	return func(o *engineOptions) { o.cacheSize = size }
}

// WithMetrics records query metrics
func WithMetrics(metrics *observability.Metrics) EngineOption {
	return func(o *engineOptions) { o.metrics = metrics }
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *observability.Logger) EngineOption {
	return func(o *engineOptions) { o.logger = logger }
}

// NewEngine creates an engine over graph. The caller must not modify graph
// afterwards.
func NewEngine(graph workspace.Graph, opts ...EngineOption) (*Engine, error) {
	o := engineOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = observability.NopLogger()
	}

	cache, err := lru.New[traversalKey, traversalResult](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create traversal cache: %w", err)
	}

	if graph == nil {
		graph = workspace.Graph{}
	}
	o.metrics.SetGraphSize(len(graph), graph.EdgeCount())

	return &Engine{
		graph:   graph,
		cache:   cache,
		metrics: o.metrics,
		logger:  o.logger,
	}, nil
}

// Graph returns the snapshot the engine queries
func (e *Engine) Graph() workspace.Graph {
	return e.graph
}

// Inverted returns the snapshot with every edge reversed. It is computed once.
func (e *Engine) Inverted() workspace.Graph {
	e.invertOnce.Do(func() {
		e.inverted = InvertDependencyDirection(e.graph)
	})
	return e.inverted
}

func (e *Engine) graphFor(dir direction) workspace.Graph {
	if dir == backward {
		return e.Inverted()
	}
	return e.graph
}

func (e *Engine) traverse(origin workspace.Name, breakOnCycle bool, dir direction) (*OrderedDependencyMap, error) {
	key := traversalKey{origin: origin, breakOnCycle: breakOnCycle, direction: dir}
	if cached, ok := e.cache.Get(key); ok {
		e.metrics.RecordCacheHit()
		return cached.deps, cached.err
	}
	e.metrics.RecordCacheMiss()

	deps, err := Traverse(origin, e.graphFor(dir), breakOnCycle)
	e.cache.Add(key, traversalResult{deps: deps, err: err})
	return deps, err
}

func (e *Engine) observe(operation string, start time.Time, size int, err error) {
	cycle := errors.Is(err, ErrCycleDetected)
	e.metrics.ObserveQuery(operation, start, size, err, cycle)

	log := e.logger.WithOperation(operation).WithDuration(start)
	if err != nil {
		log.WithError(err).Debug("graph query failed")
		return
	}
	log.WithField("result_size", size).Debug("graph query complete")
}

// Traverse returns the levelled dependencies of origin
func (e *Engine) Traverse(origin workspace.Name, breakOnCycle bool) (*OrderedDependencyMap, error) {
	start := time.Now()
	deps, err := e.traverse(origin, breakOnCycle, forward)
	size := 0
	if deps != nil {
		size = deps.Len()
	}
	e.observe("traverse", start, size, err)
	return deps, err
}

// Dependants returns the levelled dependants of origin, level 1 being the
// workspaces that depend on it directly
func (e *Engine) Dependants(origin workspace.Name, breakOnCycle bool) (*OrderedDependencyMap, error) {
	start := time.Now()
	deps, err := e.traverse(origin, breakOnCycle, backward)
	size := 0
	if deps != nil {
		size = deps.Len()
	}
	e.observe("dependants", start, size, err)
	return deps, err
}

func (e *Engine) collect(origins []workspace.Name, breakOnCycle bool, dir direction) (workspace.Set, error) {
	result := make(workspace.Set)
	for _, origin := range origins {
		deps, err := e.traverse(origin, breakOnCycle, dir)
		if err != nil {
			return nil, err
		}
		for _, name := range deps.order {
			result.Add(name)
		}
	}
	for _, origin := range origins {
		result.Remove(origin)
	}
	return result, nil
}

// Descendants is ComputeDescendantSet over the engine snapshot
func (e *Engine) Descendants(origins []workspace.Name, breakOnCycle bool) (workspace.Set, error) {
	start := time.Now()
	set, err := e.collect(origins, breakOnCycle, forward)
	e.observe("descendants", start, set.Len(), err)
	return set, err
}

// Ancestors is ComputeAncestorSet over the engine snapshot
func (e *Engine) Ancestors(origins []workspace.Name, breakOnCycle bool) (workspace.Set, error) {
	start := time.Now()
	set, err := e.collect(origins, breakOnCycle, backward)
	e.observe("ancestors", start, set.Len(), err)
	return set, err
}

// BuildOrder is ComputeBuildOrder over the engine snapshot
func (e *Engine) BuildOrder(targets []workspace.Name, opts BuildOrderOptions) (*BuildPlan, error) {
	start := time.Now()
	plan, err := ComputeBuildOrder(targets, e.graph, opts)
	size := 0
	if plan != nil {
		size = plan.Len()
	}
	e.observe("build_order", start, size, err)
	return plan, err
}

// Cytoscape is BuildCytoscapeGraph over the engine snapshot, reusing the
// cached inverted graph
func (e *Engine) Cytoscape(origin workspace.Name, direction Direction, transitive bool) CytoscapeGraph {
	return buildCytoscapeGraph(e.graph, e.Inverted, origin, direction, transitive)
}

// TraverseAll traverses every origin concurrently, sharing the engine cache
func (e *Engine) TraverseAll(ctx context.Context, origins []workspace.Name, breakOnCycle bool, limit int) (map[workspace.Name]*OrderedDependencyMap, error) {
	start := time.Now()
	results, err := traverseAll(ctx, origins, limit, func(origin workspace.Name) (*OrderedDependencyMap, error) {
		return e.traverse(origin, breakOnCycle, forward)
	})
	e.observe("traverse_all", start, len(results), err)
	return results, err
}
