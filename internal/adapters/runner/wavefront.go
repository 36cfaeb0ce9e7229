package runner

import (
	"context"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// waveFn processes one wave of mutually-independent ready nodes and
// reports per-node outcomes. The bounded-parallel strategy runs the
// wave in-process; the distributed strategy hands it to a dispatcher.
type waveFn func(ctx context.Context, wave []domain.Node, setup *runSetup) map[string]ports.NodeResult

// runWavefront drives the wave scheduler: compute the ready set,
// dispatch it, wait for the whole wave, fold results, repeat. A node
// never starts before every dependency's wave has fully completed.
// Returns nil when all nodes completed, or the run-level failure.
func runWavefront(ctx context.Context, deps *runDeps, setup *runSetup, dispatch waveFn) error {
	completed := make(map[string]struct{}, len(setup.order))

	for len(completed) < len(setup.order) {
		if err := ctx.Err(); err != nil {
			return err
		}

		ready := readySet(setup, completed)
		if len(ready) == 0 {
			// Acyclicity was proven during graph building, so an
			// empty ready set with work remaining is a scheduler
			// defect, not a user error.
			remaining := make([]string, 0)
			for _, nodeID := range setup.order {
				if _, done := completed[nodeID]; !done {
					remaining = append(remaining, nodeID)
				}
			}
			deps.logger.Error("wavefront deadlock",
				"execution_id", setup.execution.ID,
				"remaining", len(remaining),
			)
			return domain.NewDeadlockError(remaining)
		}

		wave := make([]domain.Node, 0, len(ready))
		for _, nodeID := range ready {
			wave = append(wave, setup.nodesByID[nodeID])
		}

		deps.logger.Debug("dispatching wave",
			"execution_id", setup.execution.ID,
			"wave_size", len(wave),
			"completed", len(completed),
		)

		results := dispatch(ctx, wave, setup)

		// First-failure-wins: sibling results are recorded on the run
		// record but no further wave is scheduled.
		var failure error
		for _, nodeID := range ready {
			result, ok := results[nodeID]
			if !ok {
				result = ports.NodeResult{Success: false, Error: "no result reported for node"}
			}
			applyNodeResult(setup.execution, nodeID, result)

			if result.Success {
				completed[nodeID] = struct{}{}
			} else if failure == nil {
				failure = nodeFailure(nodeID, result.Error)
			}
		}

		if failure != nil {
			return failure
		}
	}

	return nil
}

// readySet returns, in stable topological order, every node not yet
// completed whose dependencies are all completed.
func readySet(setup *runSetup, completed map[string]struct{}) []string {
	ready := make([]string, 0)

	for _, nodeID := range setup.order {
		if _, done := completed[nodeID]; done {
			continue
		}

		allDepsDone := true
		for depID := range setup.deps[nodeID] {
			if _, done := completed[depID]; !done {
				allDepsDone = false
				break
			}
		}

		if allDepsDone {
			ready = append(ready, nodeID)
		}
	}

	return ready
}
