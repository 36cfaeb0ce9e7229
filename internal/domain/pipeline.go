package domain

type NodeType string

const (
	NodeTypeFileInput     NodeType = "file_input"
	NodeTypeDatabaseInput NodeType = "database_input"
	NodeTypeFilter        NodeType = "filter"
	NodeTypeAggregate     NodeType = "aggregate"
	NodeTypeJoin          NodeType = "join"
	NodeTypeTransform     NodeType = "transform"
	NodeTypeModelTrain    NodeType = "model_train"
	NodeTypeModelPredict  NodeType = "model_predict"
	NodeTypeFileOutput    NodeType = "file_output"
	NodeTypeDatabaseOutput NodeType = "database_output"
)

type NodeKind string

const (
	NodeKindInput     NodeKind = "input"
	NodeKindTransform NodeKind = "transform"
	NodeKindOutput    NodeKind = "output"
	NodeKindModel     NodeKind = "model"
)

// Kind collapses the closed node type enumeration into its broad category.
// Unknown types are treated as transforms.
func (t NodeType) Kind() NodeKind {
	switch t {
	case NodeTypeFileInput, NodeTypeDatabaseInput:
		return NodeKindInput
	case NodeTypeFileOutput, NodeTypeDatabaseOutput:
		return NodeKindOutput
	case NodeTypeModelTrain, NodeTypeModelPredict:
		return NodeKindModel
	default:
		return NodeKindTransform
	}
}

// Node is a unit of work in a pipeline graph. Nodes are owned by the
// caller-supplied graph and must not be mutated during a run.
type Node struct {
	ID         string                 `json:"id"`
	Type       NodeType               `json:"type"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	DatasetID  string                 `json:"dataset_id,omitempty"`
}

// Edge is a directed dependency: Target depends on Source. Multiple
// edges between the same pair collapse to one dependency relation.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	TransferType string `json:"transfer_type,omitempty"`
	Label        string `json:"label,omitempty"`
}

// DependencyMap maps a node id to the set of node ids it directly
// depends on. Derived from the edge list, rebuilt per execution.
type DependencyMap map[string]map[string]struct{}

// PipelineSlice is the minimal node/edge subset needed to produce a
// given set of target nodes.
type PipelineSlice struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// DatasetDescriptor is the catalog entry shape consumed through the
// DataCatalog port. The engine passes ids through without validating
// catalog contents.
type DatasetDescriptor struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Format   string            `json:"format,omitempty"`
	Location string            `json:"location,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
