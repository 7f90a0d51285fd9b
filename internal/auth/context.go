package auth

import "context"

type contextKey string

const learnerKey contextKey = "learner_id"

// WithLearner attaches the authenticated learner id to the context.
func WithLearner(ctx context.Context, learnerID string) context.Context {
	return context.WithValue(ctx, learnerKey, learnerID)
}

// LearnerFrom extracts the learner id from the context.
func LearnerFrom(ctx context.Context) string {
	if v, ok := ctx.Value(learnerKey).(string); ok && v != "" {
		return v
	}
	return DefaultLearner
}
