package domain

import "fmt"

const (
	ExecutionPrefix     = "execution:record:"
	PipelineIndexPrefix = "execution:pipeline:"
	CatalogPrefix       = "catalog:entry:"
)

// ExecutionKey builds the canonical storage key for one run record.
func ExecutionKey(executionID string) string {
	return fmt.Sprintf("%s%s", ExecutionPrefix, executionID)
}

// PipelineIndexKey builds the per-pipeline index key for a run record.
// Keys under one pipeline prefix sort by start time.
func PipelineIndexKey(pipelineID string, startedAtUnixNano int64, executionID string) string {
	return fmt.Sprintf("%s%s:%020d:%s", PipelineIndexPrefix, pipelineID, startedAtUnixNano, executionID)
}

// PipelinePrefix is the scan prefix covering every record index entry
// for one pipeline.
func PipelinePrefix(pipelineID string) string {
	return fmt.Sprintf("%s%s:", PipelineIndexPrefix, pipelineID)
}

// CatalogKey builds the storage key for one dataset catalog entry.
func CatalogKey(datasetID string) string {
	return fmt.Sprintf("%s%s", CatalogPrefix, datasetID)
}
