package graph

import (
	"log/slog"

	"github.com/skein-dev/skein/internal/domain"
)

// Builder derives dependency structure from a caller-supplied node and
// edge list. It keeps no state between calls.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		logger: logger.With("component", "graph-builder"),
	}
}

// BuildDependencyMap returns node id -> direct dependency set. Every
// node is present as a key, including nodes with no incoming edges.
// Parallel edges between the same pair collapse to one relation.
func (b *Builder) BuildDependencyMap(nodes []domain.Node, edges []domain.Edge) (domain.DependencyMap, error) {
	deps := make(domain.DependencyMap, len(nodes))
	for _, node := range nodes {
		deps[node.ID] = make(map[string]struct{})
	}

	for _, edge := range edges {
		if _, ok := deps[edge.Source]; !ok {
			return nil, domain.NewMissingNodeError(edge.ID, edge.Source)
		}
		if _, ok := deps[edge.Target]; !ok {
			return nil, domain.NewMissingNodeError(edge.ID, edge.Target)
		}
		deps[edge.Target][edge.Source] = struct{}{}
	}

	return deps, nil
}

type visitMark int

const (
	markUnvisited visitMark = iota
	markInProgress
	markDone
)

// TopologicalSort orders node ids so every node appears after all of
// its dependencies. Depth-first with three-color marking; re-entering
// an in-progress node proves a cycle and fails the whole sort with a
// CircularDependencyError naming that node. Iteration follows the
// input node list, so unrelated nodes keep a stable relative order.
func (b *Builder) TopologicalSort(nodes []domain.Node, edges []domain.Edge) ([]string, error) {
	deps, err := b.BuildDependencyMap(nodes, edges)
	if err != nil {
		return nil, err
	}

	// Deterministic iteration over each node's dependency set: walk
	// the node list order rather than map order.
	order := make([]string, 0, len(nodes))
	nodeOrder := make([]string, 0, len(nodes))
	for _, node := range nodes {
		nodeOrder = append(nodeOrder, node.ID)
	}

	marks := make(map[string]visitMark, len(nodes))

	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case markDone:
			return nil
		case markInProgress:
			return domain.NewCircularDependencyError(id)
		}

		marks[id] = markInProgress
		for _, depID := range nodeOrder {
			if _, ok := deps[id][depID]; !ok {
				continue
			}
			if err := visit(depID); err != nil {
				return err
			}
		}
		marks[id] = markDone
		order = append(order, id)
		return nil
	}

	for _, id := range nodeOrder {
		if err := visit(id); err != nil {
			b.logger.Debug("topological sort failed", "node_count", len(nodes), "error", err.Error())
			return nil, err
		}
	}

	b.logger.Debug("topological sort computed", "node_count", len(order), "edge_count", len(edges))
	return order, nil
}

// Slice computes the minimal node/edge subset needed to produce the
// target nodes: the transitive dependency closure of each target,
// plus every edge whose endpoints both survive. Slicing an already
// sliced graph by the same targets is a no-op.
func (b *Builder) Slice(nodes []domain.Node, edges []domain.Edge, targetIDs []string) (*domain.PipelineSlice, error) {
	deps, err := b.BuildDependencyMap(nodes, edges)
	if err != nil {
		return nil, err
	}

	included := make(map[string]struct{})
	var walk func(id string)
	walk = func(id string) {
		if _, ok := included[id]; ok {
			return
		}
		included[id] = struct{}{}
		for depID := range deps[id] {
			walk(depID)
		}
	}

	for _, id := range targetIDs {
		if _, ok := deps[id]; !ok {
			return nil, domain.NewMissingNodeError("", id)
		}
		walk(id)
	}

	slice := &domain.PipelineSlice{
		Nodes: make([]domain.Node, 0, len(included)),
		Edges: make([]domain.Edge, 0, len(edges)),
	}

	for _, node := range nodes {
		if _, ok := included[node.ID]; ok {
			slice.Nodes = append(slice.Nodes, node)
		}
	}

	for _, edge := range edges {
		_, srcIn := included[edge.Source]
		_, dstIn := included[edge.Target]
		if srcIn && dstIn {
			slice.Edges = append(slice.Edges, edge)
		}
	}

	b.logger.Debug("pipeline slice computed",
		"targets", len(targetIDs),
		"nodes_kept", len(slice.Nodes),
		"edges_kept", len(slice.Edges),
	)

	return slice, nil
}
