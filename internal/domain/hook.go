package domain

import (
	"context"
	"time"
)

type HookStage string

const (
	StageBeforePipelineRun HookStage = "before_pipeline_run"
	StageAfterPipelineRun  HookStage = "after_pipeline_run"
	StageOnPipelineError   HookStage = "on_pipeline_error"
	StageBeforeNodeRun     HookStage = "before_node_run"
	StageAfterNodeRun      HookStage = "after_node_run"
	StageOnNodeError       HookStage = "on_node_error"
	StageBeforeCatalogSave HookStage = "before_catalog_save"
	StageAfterCatalogSave  HookStage = "after_catalog_save"
	StageBeforeCatalogLoad HookStage = "before_catalog_load"
	StageAfterCatalogLoad  HookStage = "after_catalog_load"
)

// HookContext is the immutable snapshot handed to a hook callback.
type HookContext struct {
	Stage     HookStage              `json:"stage"`
	Pipeline  *PipelineSlice         `json:"-"`
	Node      *Node                  `json:"-"`
	Execution *PipelineExecution     `json:"-"`
	Error     error                  `json:"-"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// HookResult is what a callback returns. Continue=false stops the
// remaining hooks at the same stage for this invocation.
type HookResult struct {
	Continue bool                   `json:"continue"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// HookCallback may suspend for asynchronous work; a returned error is
// isolated by the registry and never propagates to the caller.
type HookCallback func(ctx context.Context, hookCtx HookContext) (HookResult, error)

// HookDefinition is a registered extension callback. Disabled hooks
// are skipped but kept; unregistration deletes permanently.
type HookDefinition struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Stage     HookStage         `json:"stage"`
	Priority  int               `json:"priority"`
	Enabled   bool              `json:"enabled"`
	Callback  HookCallback      `json:"-"`
	Author    string            `json:"author,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// HookExecutionRecord is one entry in the registry's execution log,
// written for every invocation regardless of outcome.
type HookExecutionRecord struct {
	HookID    string        `json:"hook_id"`
	Stage     HookStage     `json:"stage"`
	Success   bool          `json:"success"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
