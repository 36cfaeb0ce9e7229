package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skein-dev/skein/internal/domain"
	"github.com/skein-dev/skein/internal/ports"
)

// Collector exposes the engine counters and per-runner gauges to
// Prometheus. It reads live snapshots at scrape time instead of
// double-counting alongside the engine's own atomics.
type Collector struct {
	engine  *domain.EngineMetrics
	runners ports.RunnerRegistryPort

	runsStarted   *prometheus.Desc
	runsCompleted *prometheus.Desc
	runsFailed    *prometheus.Desc

	nodesExecuted  *prometheus.Desc
	nodesSucceeded *prometheus.Desc
	nodesFailed    *prometheus.Desc

	hooksInvoked *prometheus.Desc
	hooksFailed  *prometheus.Desc

	nodeTimeAverage *prometheus.Desc

	runnerSuccessRatio *prometheus.Desc
	runnerQueuedJobs   *prometheus.Desc
	runnerActiveJobs   *prometheus.Desc
}

func NewCollector(engine *domain.EngineMetrics, runners ports.RunnerRegistryPort) *Collector {
	runnerLabels := []string{"runner", "strategy"}

	return &Collector{
		engine:  engine,
		runners: runners,

		runsStarted: prometheus.NewDesc(
			"skein_runs_started_total",
			"Pipeline runs started across all runners.",
			nil, nil,
		),
		runsCompleted: prometheus.NewDesc(
			"skein_runs_completed_total",
			"Pipeline runs that reached completed.",
			nil, nil,
		),
		runsFailed: prometheus.NewDesc(
			"skein_runs_failed_total",
			"Pipeline runs that reached failed.",
			nil, nil,
		),
		nodesExecuted: prometheus.NewDesc(
			"skein_nodes_executed_total",
			"Node executions attempted.",
			nil, nil,
		),
		nodesSucceeded: prometheus.NewDesc(
			"skein_nodes_succeeded_total",
			"Node executions that succeeded.",
			nil, nil,
		),
		nodesFailed: prometheus.NewDesc(
			"skein_nodes_failed_total",
			"Node executions that failed.",
			nil, nil,
		),
		hooksInvoked: prometheus.NewDesc(
			"skein_hooks_invoked_total",
			"Hook callbacks invoked.",
			nil, nil,
		),
		hooksFailed: prometheus.NewDesc(
			"skein_hooks_failed_total",
			"Hook callbacks that returned an error or panicked.",
			nil, nil,
		),
		nodeTimeAverage: prometheus.NewDesc(
			"skein_node_execution_time_average_seconds",
			"Rolling average node execution time.",
			nil, nil,
		),
		runnerSuccessRatio: prometheus.NewDesc(
			"skein_runner_success_ratio",
			"Historical success ratio per registered runner.",
			runnerLabels, nil,
		),
		runnerQueuedJobs: prometheus.NewDesc(
			"skein_runner_queued_jobs",
			"Jobs waiting for a slot per registered runner.",
			runnerLabels, nil,
		),
		runnerActiveJobs: prometheus.NewDesc(
			"skein_runner_active_jobs",
			"Jobs currently executing per registered runner.",
			runnerLabels, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runsStarted
	ch <- c.runsCompleted
	ch <- c.runsFailed
	ch <- c.nodesExecuted
	ch <- c.nodesSucceeded
	ch <- c.nodesFailed
	ch <- c.hooksInvoked
	ch <- c.hooksFailed
	ch <- c.nodeTimeAverage
	ch <- c.runnerSuccessRatio
	ch <- c.runnerQueuedJobs
	ch <- c.runnerActiveJobs
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.engine.GetSnapshot()

	counter := func(desc *prometheus.Desc, value int64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value))
	}
	counter(c.runsStarted, snapshot.RunsStarted)
	counter(c.runsCompleted, snapshot.RunsCompleted)
	counter(c.runsFailed, snapshot.RunsFailed)
	counter(c.nodesExecuted, snapshot.NodesExecuted)
	counter(c.nodesSucceeded, snapshot.NodesSucceeded)
	counter(c.nodesFailed, snapshot.NodesFailed)
	counter(c.hooksInvoked, snapshot.HooksInvoked)
	counter(c.hooksFailed, snapshot.HooksFailed)

	average := c.engine.GetAverageExecutionTime()
	ch <- prometheus.MustNewConstMetric(
		c.nodeTimeAverage, prometheus.GaugeValue,
		average.Seconds(),
	)

	if c.runners == nil {
		return
	}

	for _, descriptor := range c.runners.List() {
		labels := []string{descriptor.Name, string(descriptor.Config.Strategy)}
		runnerMetrics := descriptor.Metrics.Snapshot()

		ch <- prometheus.MustNewConstMetric(
			c.runnerSuccessRatio, prometheus.GaugeValue,
			descriptor.Metrics.SuccessRatio(), labels...,
		)
		ch <- prometheus.MustNewConstMetric(
			c.runnerQueuedJobs, prometheus.GaugeValue,
			float64(runnerMetrics.QueuedJobs), labels...,
		)
		ch <- prometheus.MustNewConstMetric(
			c.runnerActiveJobs, prometheus.GaugeValue,
			float64(runnerMetrics.ActiveJobs), labels...,
		)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
