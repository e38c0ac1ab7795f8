// Package obscontext carries correlation identifiers across request scopes.
package obscontext

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	clubIDKey    contextKey = "club_id"
	actorTypeKey contextKey = "actor_type"
	actorIDKey   contextKey = "actor_id"
)

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request id, or empty.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithClubID stores the caller's club id in the context.
func WithClubID(ctx context.Context, clubID string) context.Context {
	return context.WithValue(ctx, clubIDKey, clubID)
}

// ClubIDFromContext returns the club id, or empty.
func ClubIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(clubIDKey).(string)
	return value
}

// WithActor stores the acting member's type and id in the context.
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	ctx = context.WithValue(ctx, actorTypeKey, actorType)
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorFromContext returns the actor type and id, or empty strings.
func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	actorType, _ := ctx.Value(actorTypeKey).(string)
	actorID, _ := ctx.Value(actorIDKey).(string)
	return actorType, actorID
}
