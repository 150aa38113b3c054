package service

import (
	"context"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
)

// Publisher fans a message out to in-process subscribers. eventbus.Bus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, eventID uint, payload interface{})
}

// Auditor records entity changes. Failures never reach the caller.
type Auditor interface {
	Record(ctx context.Context, rec domain.ChangeRecord)
}

// Notifier enqueues a notification. Failures never reach the caller.
type Notifier interface {
	Dispatch(ctx context.Context, n domain.Notification)
}

type actorKey struct{}

// ContextWithActor attaches the request's actor so mutations can be attributed in the audit trail.
func ContextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(domain.Actor)
	return actor
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, uint, interface{}) {}

type noopAuditor struct{}

func (noopAuditor) Record(context.Context, domain.ChangeRecord) {}

type noopNotifier struct{}

func (noopNotifier) Dispatch(context.Context, domain.Notification) {}
