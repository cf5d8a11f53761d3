package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"go.uber.org/zap"
)

// ProductHandler notifies a seller about lifecycle changes to one of
// their products.
type ProductHandler struct {
	users      repository.UserRepository
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewProductHandler(users repository.UserRepository, dispatcher Dispatcher, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{users: users, dispatcher: dispatcher, logger: logger}
}

func (h *ProductHandler) Handle(ctx context.Context, event *models.Event) error {
	switch event.Type {
	case models.TypeProductCreated, models.TypeProductUpdated, models.TypeProductDeleted:
	default:
		h.logger.Warn("unknown product event type, ignoring", zap.String("type", event.Type))
		return nil
	}

	var data models.ProductEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("decode product event: %w", err)
	}

	seller := lookupRecipient(ctx, h.users, h.logger, data.Seller.ID)
	if seller == nil {
		return nil
	}

	notification, err := renderProductEmail(event.Type, seller, &data)
	if err != nil {
		return err
	}
	return h.dispatcher.Deliver(ctx, notification)
}
