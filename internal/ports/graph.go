package ports

import (
	"github.com/skein-dev/skein/internal/domain"
)

// GraphBuilderPort derives execution structure from a caller-supplied
// graph. Implementations rebuild everything per call; nothing is
// cached between runs.
type GraphBuilderPort interface {
	// BuildDependencyMap returns node id -> direct dependency set.
	// Every node appears as a key, including nodes with no incoming
	// edges.
	BuildDependencyMap(nodes []domain.Node, edges []domain.Edge) (domain.DependencyMap, error)

	// TopologicalSort returns a dependencies-before-dependents order,
	// or a CircularDependencyError naming a node on the cycle.
	TopologicalSort(nodes []domain.Node, edges []domain.Edge) ([]string, error)

	// Slice filters the graph down to the transitive dependency
	// closure of the target node ids.
	Slice(nodes []domain.Node, edges []domain.Edge, targetIDs []string) (*domain.PipelineSlice, error)
}
