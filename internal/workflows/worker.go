package workflows

import (
	"fmt"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/synapsec/core/internal/store"
)

// Worker manages the Temporal worker lifecycle for the correlation sweep
// workflow, mirroring modules/scanning/worker/temporal_worker.go's
// client/worker pairing.
type Worker struct {
	client client.Client
	worker worker.Worker
}

func NewWorker(temporalAddress string, s store.Store) (*Worker, error) {
	c, err := client.Dial(client.Options{HostPort: temporalAddress})
	if err != nil {
		return nil, fmt.Errorf("create temporal client: %w", err)
	}

	w := worker.New(c, TaskQueue, worker.Options{})
	w.RegisterWorkflow(CorrelationSweepWorkflow)

	activities := NewActivities(s)
	w.RegisterActivity(activities.ListApplicationsWithFindings)
	w.RegisterActivity(activities.RunCorrelationForApplication)

	return &Worker{client: c, worker: w}, nil
}

func (w *Worker) Start() error {
	log.Println("📡 starting Temporal worker for correlation sweeps")
	return w.worker.Run(worker.InterruptCh())
}

func (w *Worker) Stop() {
	log.Println("🛑 stopping Temporal worker")
	w.worker.Stop()
	w.client.Close()
}

func (w *Worker) Client() client.Client {
	return w.client
}
