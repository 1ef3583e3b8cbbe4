package access

import (
	"context"
	"log/slog"
	"time"

	"planner-app/internal/lib/metrics"
	"planner-app/internal/lib/sl"
)

// SubscriptionSource loads the stored subscription fields for a user.
type SubscriptionSource interface {
	GetUserSubscription(ctx context.Context, userID uint) (Snapshot, error)
}

// Resolver looks up a user's subscription on every call; nothing is cached.
type Resolver struct {
	src SubscriptionSource
	log *slog.Logger
	now func() time.Time
}

func NewResolver(src SubscriptionSource, log *slog.Logger, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{src: src, log: log, now: now}
}

func (r *Resolver) Now() time.Time {
	return r.now()
}

// Resolve never fails: a lookup error is logged and resolves to free.
func (r *Resolver) Resolve(ctx context.Context, userID uint) Resolution {
	snap, err := r.src.GetUserSubscription(ctx, userID)
	if err != nil {
		r.log.Warn("subscription lookup failed, using free tier",
			slog.Uint64("user_id", uint64(userID)),
			sl.Err(err),
		)
		metrics.SubscriptionLookupFailures.Inc()
		snap = FreeSnapshot()
	}
	return Resolve(r.now(), snap)
}
