package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes recorded for the asynchronous writer pool.
const (
	OutcomePooled  = "pooled"
	OutcomeInline  = "inline"
	OutcomeDropped = "dropped"
	OutcomeFailed  = "failed"
)

var (
	storageOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "s3drop_storage_operations_total",
		Help: "Object storage calls by operation and result.",
	}, []string{"op", "status"})

	writerTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "s3drop_writer_tasks_total",
		Help: "Writer pool task dispatches by outcome.",
	}, []string{"outcome"})

	writerWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "s3drop_writer_workers",
		Help: "Writer pool workers currently alive.",
	})

	clientsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "s3drop_storage_clients_created_total",
		Help: "Storage clients constructed by provider factories.",
	})
)

// StorageOp records the result of one storage call.
func StorageOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	storageOps.WithLabelValues(op, status).Inc()
}

// WriterTask records how one asynchronous task was dispatched or finished.
func WriterTask(outcome string) {
	writerTasks.WithLabelValues(outcome).Inc()
}

// WorkerUp marks one writer pool worker as alive.
func WorkerUp() {
	writerWorkers.Inc()
}

// WorkerDown marks one writer pool worker as retired.
func WorkerDown() {
	writerWorkers.Dec()
}

// ClientCreated counts one storage client construction.
func ClientCreated() {
	clientsCreated.Inc()
}
