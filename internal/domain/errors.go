package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStoreClosed   = errors.New("execution store closed")
)

// CircularDependencyError is a structural failure: the graph contains
// a cycle and no execution order exists. Raised before any node runs.
type CircularDependencyError struct {
	NodeID string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected at node %q", e.NodeID)
}

func NewCircularDependencyError(nodeID string) *CircularDependencyError {
	return &CircularDependencyError{NodeID: nodeID}
}

func IsCircularDependency(err error) bool {
	var cycleErr *CircularDependencyError
	return errors.As(err, &cycleErr)
}

// MissingNodeError is a structural failure: an edge references a node
// id absent from the node list.
type MissingNodeError struct {
	EdgeID string
	NodeID string
}

func (e *MissingNodeError) Error() string {
	if e.EdgeID == "" {
		return fmt.Sprintf("unknown node %q", e.NodeID)
	}
	return fmt.Sprintf("edge %q references unknown node %q", e.EdgeID, e.NodeID)
}

func NewMissingNodeError(edgeID, nodeID string) *MissingNodeError {
	return &MissingNodeError{EdgeID: edgeID, NodeID: nodeID}
}

func IsMissingNode(err error) bool {
	var missingErr *MissingNodeError
	return errors.As(err, &missingErr)
}

// IsStructural reports whether an error belongs to the class that
// aborts a run before any node executes.
func IsStructural(err error) bool {
	return IsCircularDependency(err) || IsMissingNode(err)
}

// DeadlockError means the wavefront scheduler found no ready and no
// running nodes while work remained. Acyclicity is proven before
// scheduling, so this only signals a builder defect.
type DeadlockError struct {
	Remaining []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock: %d nodes can never become ready: %v", len(e.Remaining), e.Remaining)
}

func NewDeadlockError(remaining []string) *DeadlockError {
	return &DeadlockError{Remaining: remaining}
}

func IsDeadlock(err error) bool {
	var deadlockErr *DeadlockError
	return errors.As(err, &deadlockErr)
}

// StorageError wraps failures of the KV backend behind the storage
// port.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
