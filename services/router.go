package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"go.uber.org/zap"
)

// EventHandler processes one decoded event. A nil return acknowledges
// the message; any error rejects it without requeue.
type EventHandler interface {
	Handle(ctx context.Context, event *models.Event) error
}

// Router maps queue names to their handlers.
type Router struct {
	handlers map[string]EventHandler
}

func NewRouter(users repository.UserRepository, dispatcher Dispatcher, logger *zap.Logger) *Router {
	return &Router{
		handlers: map[string]EventHandler{
			models.QueueAuthEvents:    NewAuthHandler(users, dispatcher, logger),
			models.QueueProductEvents: NewProductHandler(users, dispatcher, logger),
			models.QueueOrderEvents:   NewOrderHandler(users, dispatcher, logger),
			models.QueueUserDataSync:  NewUserSyncHandler(users, logger),
		},
	}
}

// Queues lists every queue a handler is registered for.
func (r *Router) Queues() []string {
	queues := make([]string, 0, len(r.handlers))
	for queue := range r.handlers {
		queues = append(queues, queue)
	}
	return queues
}

func (r *Router) Dispatch(ctx context.Context, queue string, event *models.Event) error {
	handler, ok := r.handlers[queue]
	if !ok {
		return fmt.Errorf("no handler registered for queue %s", queue)
	}
	return handler.Handle(ctx, event)
}

// lookupRecipient resolves a user for addressing. A miss or a store
// error means "skip this recipient": both are logged and return nil,
// never a message failure.
func lookupRecipient(ctx context.Context, users repository.UserRepository, logger *zap.Logger, id string) *models.User {
	user, err := users.FindByExternalID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("user not found, skipping notification", zap.String("user_id", id))
		} else {
			logger.Error("user lookup failed, skipping notification",
				zap.String("user_id", id),
				zap.Error(err),
			)
		}
		return nil
	}
	return user
}
