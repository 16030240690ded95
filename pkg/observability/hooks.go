package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/journey/pkg/domain"
)

// ChainHooks returns hooks that call each set in order. Nil callbacks are skipped.
func ChainHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepVisit: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range sets {
				if h.OnStepVisit != nil {
					h.OnStepVisit(ctx, e)
				}
			}
		},
		OnStepAdvance: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range sets {
				if h.OnStepAdvance != nil {
					h.OnStepAdvance(ctx, e)
				}
			}
		},
		OnEntrySaved: func(ctx context.Context, e *domain.EntryEvent) {
			for _, h := range sets {
				if h.OnEntrySaved != nil {
					h.OnEntrySaved(ctx, e)
				}
			}
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			for _, h := range sets {
				if h.OnReset != nil {
					h.OnReset(ctx, e)
				}
			}
		},
		OnCompile: func(ctx context.Context, e *domain.EventBase) {
			for _, h := range sets {
				if h.OnCompile != nil {
					h.OnCompile(ctx, e)
				}
			}
		},
	}
}

// LogHooks logs every lifecycle event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepVisit: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Visit Step", "step_id", e.StepID, "slot", e.Slot)
		},
		OnStepAdvance: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Advance Step", "step_id", e.StepID, "next", e.NextID)
		},
		OnEntrySaved: func(ctx context.Context, e *domain.EntryEvent) {
			logger.Debug("Save Entry", "step_id", e.StepID, "reason", e.Reason, "mode", e.Mode, "chars", e.Chars)
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			logger.Debug("Reset Ledger", "slot", e.Slot)
		},
		OnCompile: func(ctx context.Context, e *domain.EventBase) {
			logger.Debug("Compile Artifact", "slot", e.Slot)
		},
	}
}
