// Package resolver implements the dependency resolver: graph
// construction over required edges, cycle detection, Kahn's-algorithm
// topological scheduling with deterministic tie-breaks, and install-plan
// assembly including transitively-collected recommended dependencies.
//
// The DFS shape here follows a visited-set + explicit depth tracking
// idiom, adapted to synchronous local lookups since the catalog loader
// is in-process rather than a networked registry.
package resolver

import (
	"sort"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// ResourceLoader is the subset of catalog.Loader the resolver needs,
// abstracted so tests can supply an in-memory fake.
type ResourceLoader interface {
	GetResource(id string, kind model.Kind) (*model.Resource, error)
}

// Resolver builds InstallPlans from the required/recommended dependency
// graph of a target resource.
type Resolver struct {
	loader   ResourceLoader
	maxDepth int
}

// New creates a Resolver bounded by maxDepth.
func New(loader ResourceLoader, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = 5
	}
	return &Resolver{loader: loader, maxDepth: maxDepth}
}

// graph is the working state built while walking required edges from a set
// of targets.
type graph struct {
	resources map[string]*model.Resource      // key -> resource
	edges     map[string][]string             // key -> required dependency keys, in declared order
	missing   map[string]model.DependencyRef   // key -> unresolved reference
	recommended map[string]*model.Resource     // key -> recommended resource (transitively collected)
}

func newGraph() *graph {
	return &graph{
		resources:   make(map[string]*model.Resource),
		edges:       make(map[string][]string),
		missing:     make(map[string]model.DependencyRef),
		recommended: make(map[string]*model.Resource),
	}
}

// Resolve builds the InstallPlan for target.
func (r *Resolver) Resolve(target *model.Resource) (*model.InstallPlan, error) {
	g := newGraph()
	chain := []string{target.Key()}
	if err := r.walk(g, target, 0, chain, map[string]bool{target.Key(): true}); err != nil {
		return nil, err
	}

	if cyclePath, ok := r.detectCycleIn(g, target.Key()); ok {
		return nil, crmerr.CyclicDependency(cyclePath)
	}

	order, levels, err := kahnSchedule(g)
	if err != nil {
		return nil, err
	}

	plan := &model.InstallPlan{
		Target:           target,
		Order:            order,
		AlreadyInstalled: make(map[string]bool),
		Missing:          g.missing,
		Recommended:      g.recommended,
	}
	plan.ToInstall = make([][]*model.Resource, len(levels))
	for i, level := range levels {
		resources := make([]*model.Resource, 0, len(level))
		for _, key := range level {
			resources = append(resources, g.resources[key])
		}
		plan.ToInstall[i] = resources
	}
	return plan, nil
}

// walk performs a bounded DFS over required edges starting at node,
// recording missing references rather than aborting immediately so the
// caller sees the complete missing set.
func (r *Resolver) walk(g *graph, node *model.Resource, depth int, chain []string, onChain map[string]bool) error {
	key := node.Key()
	if _, seen := g.resources[key]; seen {
		return nil
	}
	g.resources[key] = node

	if depth >= r.maxDepth && len(node.Deps.Required) > 0 {
		return crmerr.DependencyDepth(chain, r.maxDepth)
	}

	edgeKeys := make([]string, 0, len(node.Deps.Required))
	for _, ref := range node.Deps.Required {
		depKey := ref.Key()
		edgeKeys = append(edgeKeys, depKey)

		if onChain[depKey] {
			// Cycle: recorded here so walk can continue collecting the
			// complete missing/graph state; detectCycleIn reconstructs
			// the exact path afterward for the error.
			continue
		}

		dep, err := r.loader.GetResource(ref.ID, ref.Type)
		if err != nil {
			g.missing[depKey] = ref
			continue
		}

		nextChain := append(append([]string{}, chain...), depKey)
		nextOnChain := make(map[string]bool, len(onChain)+1)
		for k := range onChain {
			nextOnChain[k] = true
		}
		nextOnChain[depKey] = true

		if err := r.walk(g, dep, depth+1, nextChain, nextOnChain); err != nil {
			return err
		}
		r.collectRecommended(g, dep)
	}
	g.edges[key] = edgeKeys
	r.collectRecommended(g, node)
	return nil
}

// collectRecommended gathers a node's recommended refs into the plan's
// transitive recommended set. Unresolvable recommended refs are
// silently dropped — they are optional by definition.
func (r *Resolver) collectRecommended(g *graph, node *model.Resource) {
	for _, ref := range node.Deps.Recommended {
		if _, ok := g.recommended[ref.Key()]; ok {
			continue
		}
		res, ok := g.resources[ref.Key()]
		if !ok {
			loaded, err := r.loader.GetResource(ref.ID, ref.Type)
			if err != nil {
				continue
			}
			res = loaded
		}
		g.recommended[ref.Key()] = res
	}
}

// detectCycleIn runs DFS with an explicit recursion stack over the
// already-built graph edges and returns the first cycle found reachable
// from root, as the stack slice from first occurrence to the re-entering
// vertex. A self-edge is reported as [A, A].
func (r *Resolver) detectCycleIn(g *graph, root string) ([]string, bool) {
	var stack []string
	onStack := make(map[string]bool)
	visited := make(map[string]bool)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		stack = append(stack, node)
		onStack[node] = true
		visited[node] = true

		for _, next := range g.edges[node] {
			if onStack[next] {
				for i, n := range stack {
					if n == next {
						cycle := append(append([]string{}, stack[i:]...), next)
						return cycle
					}
				}
			}
			if !visited[next] {
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		onStack[node] = false
		return nil
	}

	cycle := dfs(root)
	return cycle, cycle != nil
}

// DetectCycle is the public single-root cycle check.
func (r *Resolver) DetectCycle(root *model.Resource) ([]string, bool) {
	g := newGraph()
	chain := []string{root.Key()}
	if err := r.walk(g, root, 0, chain, map[string]bool{root.Key(): true}); err != nil {
		if depthErr, ok := asDepthErr(err); ok {
			_ = depthErr
			return nil, false
		}
	}
	return r.detectCycleIn(g, root.Key())
}

func asDepthErr(err error) (*crmerr.Error, bool) {
	e, ok := err.(*crmerr.Error)
	return e, ok && e.Kind == crmerr.KindDependencyDepth
}

// kahnSchedule runs Kahn's algorithm over g's required-edge subgraph,
// returning the dependencies-first id order and the level partitioning:
// level k contains vertices whose longest dependency path has length k.
// Ties at every step are broken by id ascending for determinism.
func kahnSchedule(g *graph) ([]string, [][]string, error) {
	// A vertex becomes ready once every dependency it points to (via
	// g.edges) has already been scheduled. Processing ready vertices in
	// batches this way yields exactly the longest-dependency-path level
	// for each vertex, since a vertex's earliest ready batch is always
	// 1 + max(level of its dependencies).
	remaining := make(map[string]map[string]bool) // key -> its not-yet-scheduled deps
	for key, deps := range g.edges {
		set := make(map[string]bool, len(deps))
		for _, d := range deps {
			// Missing refs are never scheduled; leaving them out keeps
			// their dependents schedulable in an incomplete plan.
			if _, ok := g.resources[d]; ok {
				set[d] = true
			}
		}
		remaining[key] = set
	}
	for key := range g.resources {
		if _, ok := remaining[key]; !ok {
			remaining[key] = make(map[string]bool)
		}
	}

	var order []string
	levelOf := make(map[string]int)
	scheduled := make(map[string]bool)

	for len(order) < len(g.resources) {
		var ready []string
		for key, deps := range remaining {
			if scheduled[key] {
				continue
			}
			allDone := true
			for d := range deps {
				if !scheduled[d] {
					allDone = false
					break
				}
			}
			if allDone {
				ready = append(ready, key)
			}
		}
		if len(ready) == 0 {
			// Should not happen once cycles are pre-detected, but guard
			// against infinite loop on unexpected graph shapes.
			break
		}
		sort.Strings(ready)
		level := 0
		for _, key := range ready {
			for d := range remaining[key] {
				if levelOf[d]+1 > level {
					level = levelOf[d] + 1
				}
			}
		}
		for _, key := range ready {
			scheduled[key] = true
			levelOf[key] = level
			order = append(order, key)
		}
	}

	maxLevel := 0
	for _, l := range levelOf {
		if l > maxLevel {
			maxLevel = l
		}
	}
	levels := make([][]string, maxLevel+1)
	for _, key := range order {
		l := levelOf[key]
		levels[l] = append(levels[l], key)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return order, levels, nil
}
