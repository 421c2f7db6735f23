// Package workflows wraps the correlation sweep in a durable Temporal
// workflow, so a worker crash mid-sweep resumes from its last completed
// activity instead of silently losing the sweep. Grounded in
// modules/scanning/workflows/scan_workflows.go's
// ActivityOptions+RetryPolicy shape and modules/scanning/worker/temporal_worker.go's
// client/worker lifecycle.
package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const TaskQueue = "synapsec-task-queue"

// CorrelationSweepWorkflow re-runs correlation for every application that
// currently has findings, one activity per application so a single
// application's failure doesn't lose progress on the others.
func CorrelationSweepWorkflow(ctx workflow.Context) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting correlation sweep workflow")

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:    3,
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var appIDs []string
	if err := workflow.ExecuteActivity(ctx, "ListApplicationsWithFindings").Get(ctx, &appIDs); err != nil {
		logger.Error("failed to list applications", "error", err)
		return err
	}

	total := 0
	for _, appID := range appIDs {
		var newRelationships int
		if err := workflow.ExecuteActivity(ctx, "RunCorrelationForApplication", appID).Get(ctx, &newRelationships); err != nil {
			logger.Error("correlation failed for application", "applicationID", appID, "error", err)
			continue
		}
		total += newRelationships
	}

	logger.Info("correlation sweep workflow completed", "applications", len(appIDs), "newRelationships", total)
	return nil
}
