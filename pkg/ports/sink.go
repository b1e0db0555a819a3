package ports

import (
	"context"

	"github.com/aretw0/hornbill/pkg/domain"
)

// PlanSink receives trip plans once a session is submitted.
// Implementations must not retain the plan pointer after returning.
type PlanSink interface {
	Deliver(ctx context.Context, plan *domain.TripPlan) error
}

// PlanSinkFunc adapts a function to PlanSink.
type PlanSinkFunc func(ctx context.Context, plan *domain.TripPlan) error

// Deliver calls f.
func (f PlanSinkFunc) Deliver(ctx context.Context, plan *domain.TripPlan) error {
	return f(ctx, plan)
}
