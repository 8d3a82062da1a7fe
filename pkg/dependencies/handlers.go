package dependencies

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jpmorganchase/modular-sub002/pkg/httputil"
	"github.com/jpmorganchase/modular-sub002/pkg/observability"
	"github.com/jpmorganchase/modular-sub002/pkg/workspace"
)

// Handlers exposes graph queries over HTTP for the graph explorer
type Handlers struct {
	current func() *Engine
}

// NewHandlers serves queries from a fixed engine
func NewHandlers(engine *Engine) *Handlers {
	return &Handlers{current: func() *Engine { return engine }}
}

// NewReloadingHandlers serves queries from whatever engine current returns at
// request time, so a watcher can swap snapshots underneath. current may return
// nil while no snapshot has been loaded.
func NewReloadingHandlers(current func() *Engine) *Handlers {
	return &Handlers{current: current}
}

// RegisterRoutes registers dependency graph routes
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/workspaces", h.listWorkspaces).Methods("GET").Name("workspaces")
	router.HandleFunc("/api/workspaces/{name}/descendants", h.getDescendants).Methods("GET").Name("descendants")
	router.HandleFunc("/api/workspaces/{name}/ancestors", h.getAncestors).Methods("GET").Name("ancestors")
	router.HandleFunc("/api/workspaces/{name}/graph", h.getCytoscapeGraph).Methods("GET").Name("cytoscape")
	router.HandleFunc("/api/graph/inverted", h.getInverted).Methods("GET").Name("inverted")
	router.HandleFunc("/api/graph/dot", h.getDOT).Methods("GET").Name("dot")
	router.HandleFunc("/api/build-order", h.postBuildOrder).Methods("POST").Name("build_order")
}

// RouteName labels a request with the name of the matched route, for metrics
func RouteName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
		return route.GetName()
	}
	return "unmatched"
}

func (h *Handlers) engine(w http.ResponseWriter) (*Engine, bool) {
	engine := h.current()
	if engine == nil {
		httputil.WriteServiceUnavailable(w, "workspace graph not loaded")
		return nil, false
	}
	return engine, true
}

// workspaceParam resolves the {name} path variable. Names that are neither a
// key nor referenced as a dependency are unknown.
func (h *Handlers) workspaceParam(w http.ResponseWriter, r *http.Request, engine *Engine) (workspace.Name, bool) {
	raw, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return "", false
	}
	name := workspace.Name(raw)
	if !engine.Graph().Has(name) && !engine.Inverted().Has(name) {
		httputil.WriteNotFoundError(w, "unknown workspace: "+raw)
		return "", false
	}
	return name, true
}

func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if cycleErr, ok := AsCycleError(err); ok {
		httputil.WriteDetailedError(w, http.StatusConflict, err, map[string]string{
			"origin": string(cycleErr.Origin),
			"path":   strings.Join(workspace.Strings(cycleErr.Path), " -> "),
		})
		return
	}
	observability.FromContext(r.Context()).WithError(err).Error("graph query failed")
	httputil.WriteInternalError(w, err)
}

// WorkspaceSummary describes one workspace in list responses
type WorkspaceSummary struct {
	Name         workspace.Name   `json:"name"`
	Dependencies []workspace.Name `json:"dependencies"`
	Dependants   []workspace.Name `json:"dependants"`
}

// listWorkspaces handles GET /api/workspaces
func (h *Handlers) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w)
	if !ok {
		return
	}

	graph := engine.Graph()
	inverted := engine.Inverted()
	// leaves referenced only as dependencies are listed too
	all := workspace.NewSet(graph.Names()...)
	for name := range inverted {
		all.Add(name)
	}
	summaries := make([]WorkspaceSummary, 0, all.Len())
	for _, name := range all.Sorted() {
		summaries = append(summaries, WorkspaceSummary{
			Name:         name,
			Dependencies: nonNil(graph.Dependencies(name)),
			Dependants:   nonNil(inverted.Dependencies(name)),
		})
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"workspaces": summaries,
		"count":      len(summaries),
	})
}

// getDescendants handles GET /api/workspaces/{name}/descendants
func (h *Handlers) getDescendants(w http.ResponseWriter, r *http.Request) {
	h.levelled(w, r, "descendants", (*Engine).Traverse)
}

// getAncestors handles GET /api/workspaces/{name}/ancestors
func (h *Handlers) getAncestors(w http.ResponseWriter, r *http.Request) {
	h.levelled(w, r, "ancestors", (*Engine).Dependants)
}

func (h *Handlers) levelled(w http.ResponseWriter, r *http.Request, key string, query func(*Engine, workspace.Name, bool) (*OrderedDependencyMap, error)) {
	engine, ok := h.engine(w)
	if !ok {
		return
	}
	name, ok := h.workspaceParam(w, r, engine)
	if !ok {
		return
	}
	breakOnCycle, ok := httputil.ParseQueryBoolOrError(w, r, "breakOnCycle", false)
	if !ok {
		return
	}

	deps, err := query(engine, name, breakOnCycle)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	// the workspace itself can come back through a cycle
	levels := deps.Levels()
	delete(levels, name)

	httputil.WriteSuccess(w, map[string]interface{}{
		"workspace": name,
		key:         levels,
		"count":     len(levels),
	})
}

// getCytoscapeGraph handles GET /api/workspaces/{name}/graph
// Query parameters:
//   - transitive: include transitive workspaces (default: true)
//   - direction: "dependencies", "dependents", or "both" (default: "dependencies")
func (h *Handlers) getCytoscapeGraph(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w)
	if !ok {
		return
	}
	name, ok := h.workspaceParam(w, r, engine)
	if !ok {
		return
	}
	transitive, ok := httputil.ParseQueryBoolOrError(w, r, "transitive", true)
	if !ok {
		return
	}
	direction, err := ParseDirection(httputil.ParseQueryString(r, "direction", ""))
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteSuccess(w, engine.Cytoscape(name, direction, transitive))
}

// getInverted handles GET /api/graph/inverted
func (h *Handlers) getInverted(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w)
	if !ok {
		return
	}
	httputil.WriteSuccess(w, engine.Inverted())
}

// getDOT handles GET /api/graph/dot
func (h *Handlers) getDOT(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(RenderDOT(engine.Graph())))
}

// BuildOrderRequest is the body of POST /api/build-order
type BuildOrderRequest struct {
	Targets            []workspace.Name `json:"targets"`
	IncludeAncestors   bool             `json:"includeAncestors"`
	IncludeDescendants *bool            `json:"includeDescendants,omitempty"`
	BreakOnCycle       *bool            `json:"breakOnCycle,omitempty"`
}

// postBuildOrder handles POST /api/build-order
func (h *Handlers) postBuildOrder(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w)
	if !ok {
		return
	}

	var req BuildOrderRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if len(req.Targets) == 0 {
		httputil.WriteBadRequest(w, "targets are required")
		return
	}

	opts := DefaultBuildOrderOptions()
	opts.IncludeAncestors = req.IncludeAncestors
	if req.IncludeDescendants != nil {
		opts.IncludeDescendants = *req.IncludeDescendants
	}
	if req.BreakOnCycle != nil {
		opts.BreakOnCycle = *req.BreakOnCycle
	}

	plan, err := engine.BuildOrder(req.Targets, opts)
	if err != nil {
		if errors.Is(err, ErrCycleDetected) {
			writeQueryError(w, r, err)
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, plan)
}

func nonNil(names []workspace.Name) []workspace.Name {
	if names == nil {
		return []workspace.Name{}
	}
	return names
}
