package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/hornbill/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level, and submissions at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter", "session_id", e.SessionID, "step", e.Step, "from", e.Peer)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave", "session_id", e.SessionID, "step", e.Step, "to", e.Peer)
		},
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.DebugContext(ctx, "validation_failed",
				"session_id", e.SessionID,
				"step", e.Error.Step,
				"field", e.Error.Field,
				"message", e.Error.Message,
			)
		},
		OnPlanSubmitted: func(ctx context.Context, e *domain.PlanEvent) {
			logger.InfoContext(ctx, "plan_submitted", "session_id", e.SessionID, "reference", e.Plan.Reference)
		},
	}
}
