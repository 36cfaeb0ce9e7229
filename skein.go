// Package skein provides a pipeline execution engine for dataflow
// graphs. Callers describe a pipeline as typed nodes joined by
// directed edges; the engine derives the dependency structure, picks
// an execution strategy, and runs each node through a pluggable work
// function while recording per-node state and metrics.
//
// Features:
//   - Dependency graph building with cycle detection and slicing
//   - Sequential, bounded-parallel, and distributed execution strategies
//   - Lifecycle hooks with priority ordering and short-circuiting
//   - Run record persistence with per-pipeline history
//   - Runner selection by capability and historical success rate
//
// Basic usage:
//
//	manager, err := skein.New(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer manager.Close()
//
//	nodes := []skein.Node{
//		{ID: "load", Type: skein.NodeTypeFileInput},
//		{ID: "clean", Type: skein.NodeTypeFilter},
//		{ID: "save", Type: skein.NodeTypeFileOutput},
//	}
//	edges := []skein.Edge{
//		{ID: "e1", Source: "load", Target: "clean"},
//		{ID: "e2", Source: "clean", Target: "save"},
//	}
//
//	execution, err := manager.ExecutePipeline(ctx, "my-pipeline", nodes, edges, nil)
package skein

import (
	"github.com/skein-dev/skein/internal/core"
	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Manager is the engine facade: pipeline execution, run history,
// hooks, runners, and the dataset catalog behind one handle.
type Manager = core.Manager

// Config is the engine configuration. Zero value plus DefaultConfig
// covers the common case; Persistent stores require DataDir.
type Config = domain.Config

// EngineConfig carries concurrency, timeout, retry, and default
// strategy settings.
type EngineConfig = domain.EngineConfig

// HooksConfig toggles the hook registry.
type HooksConfig = domain.HooksConfig

// StoreConfig selects the run record backend.
type StoreConfig = domain.StoreConfig

// Node is a unit of work in a pipeline graph.
type Node = domain.Node

// Edge is a directed dependency: Target depends on Source.
type Edge = domain.Edge

// NodeType is the closed set of node kinds a pipeline may contain.
type NodeType = domain.NodeType

// Node types.
const (
	NodeTypeFileInput      = domain.NodeTypeFileInput
	NodeTypeDatabaseInput  = domain.NodeTypeDatabaseInput
	NodeTypeFilter         = domain.NodeTypeFilter
	NodeTypeAggregate      = domain.NodeTypeAggregate
	NodeTypeJoin           = domain.NodeTypeJoin
	NodeTypeTransform      = domain.NodeTypeTransform
	NodeTypeModelTrain     = domain.NodeTypeModelTrain
	NodeTypeModelPredict   = domain.NodeTypeModelPredict
	NodeTypeFileOutput     = domain.NodeTypeFileOutput
	NodeTypeDatabaseOutput = domain.NodeTypeDatabaseOutput
)

// PipelineSlice is the minimal node/edge subset producing a target set.
type PipelineSlice = domain.PipelineSlice

// PipelineExecution is the run record for one execution attempt.
type PipelineExecution = domain.PipelineExecution

// NodeExecution tracks one node's progress inside a run.
type NodeExecution = domain.NodeExecution

// NodeMetrics carries timing and resource figures for one node run.
type NodeMetrics = domain.NodeMetrics

// ExecutionStatus is the run-level state.
type ExecutionStatus = domain.ExecutionStatus

// Run states.
const (
	ExecutionStatusRunning   = domain.ExecutionStatusRunning
	ExecutionStatusCompleted = domain.ExecutionStatusCompleted
	ExecutionStatusFailed    = domain.ExecutionStatusFailed
)

// NodeStatus is the per-node state inside a run.
type NodeStatus = domain.NodeStatus

// Node states.
const (
	NodeStatusPending   = domain.NodeStatusPending
	NodeStatusRunning   = domain.NodeStatusRunning
	NodeStatusCompleted = domain.NodeStatusCompleted
	NodeStatusFailed    = domain.NodeStatusFailed
)

// RunContext is the shared per-run result map handed to work functions.
type RunContext = domain.RunContext

// WorkFunction is the pluggable unit of work for one node type.
type WorkFunction = ports.WorkFunction

// Hook types.

// HookStage names a lifecycle point hooks can attach to.
type HookStage = domain.HookStage

// Hook stages.
const (
	StageBeforePipelineRun = domain.StageBeforePipelineRun
	StageAfterPipelineRun  = domain.StageAfterPipelineRun
	StageOnPipelineError   = domain.StageOnPipelineError
	StageBeforeNodeRun     = domain.StageBeforeNodeRun
	StageAfterNodeRun      = domain.StageAfterNodeRun
	StageOnNodeError       = domain.StageOnNodeError
	StageBeforeCatalogSave = domain.StageBeforeCatalogSave
	StageAfterCatalogSave  = domain.StageAfterCatalogSave
	StageBeforeCatalogLoad = domain.StageBeforeCatalogLoad
	StageAfterCatalogLoad  = domain.StageAfterCatalogLoad
)

// HookDefinition is a registered extension callback.
type HookDefinition = domain.HookDefinition

// HookContext is the immutable snapshot handed to a callback.
type HookContext = domain.HookContext

// HookResult is what a callback returns; Continue=false stops the
// remaining hooks at the stage.
type HookResult = domain.HookResult

// HookCallback is the hook function signature.
type HookCallback = domain.HookCallback

// HookExecutionRecord is one entry in the hook execution log.
type HookExecutionRecord = domain.HookExecutionRecord

// Runner types.

// PipelineRunner is one execution strategy.
type PipelineRunner = ports.PipelineRunner

// RunnerDescriptor identifies a registered strategy.
type RunnerDescriptor = domain.RunnerDescriptor

// RunnerConfig is the declared configuration of a strategy.
type RunnerConfig = domain.RunnerConfig

// Requirements filters runner selection; zero value matches any
// available runner.
type Requirements = domain.Requirements

// StrategyType names a built-in execution strategy.
type StrategyType = domain.StrategyType

// Strategies.
const (
	StrategySequential      = domain.StrategySequential
	StrategyBoundedParallel = domain.StrategyBoundedParallel
	StrategyDistributed     = domain.StrategyDistributed
)

// DatasetDescriptor is a dataset catalog entry.
type DatasetDescriptor = domain.DatasetDescriptor

// DataCatalog is the dataset metadata registry.
type DataCatalog = ports.DataCatalog

// New creates a Manager from config. A nil config uses defaults: four
// worker slots, sequential strategy, in-memory run store.
func New(config *Config) (*Manager, error) {
	return core.New(config)
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return domain.DefaultConfig()
}

// IsCircularDependency reports whether err is a graph cycle failure.
func IsCircularDependency(err error) bool {
	return domain.IsCircularDependency(err)
}

// IsMissingNode reports whether err is an edge referencing an unknown
// node.
func IsMissingNode(err error) bool {
	return domain.IsMissingNode(err)
}

// IsDeadlock reports whether err is a wavefront scheduling deadlock.
func IsDeadlock(err error) bool {
	return domain.IsDeadlock(err)
}

// IsNotFound reports whether err means a record or entry is absent.
func IsNotFound(err error) bool {
	return domain.IsNotFound(err)
}
