package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OrderHandler fans an order event out to every seller with a line item
// in the order, then sends the buyer an aggregate summary.
//
// The seller sends are joined all-or-nothing: one failing send fails the
// whole message even when other seller emails already went out, and the
// buyer summary is then skipped. The dropped message is not redelivered.
// This mirrors the upstream producer contract and is intentional.
type OrderHandler struct {
	users      repository.UserRepository
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewOrderHandler(users repository.UserRepository, dispatcher Dispatcher, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{users: users, dispatcher: dispatcher, logger: logger}
}

type buyerResult struct {
	user *models.User
}

func (h *OrderHandler) Handle(ctx context.Context, event *models.Event) error {
	switch event.Type {
	case models.TypeOrderPlaced, models.TypeOrderUpdated, models.TypeOrderDeleted:
	default:
		h.logger.Warn("unknown order event type, ignoring", zap.String("type", event.Type))
		return nil
	}

	var data models.OrderEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}

	// Buyer lookup runs concurrently with the seller fan-out; its result
	// is consumed only after the seller join.
	buyerCh := make(chan buyerResult, 1)
	go func() {
		buyerCh <- buyerResult{user: lookupRecipient(ctx, h.users, h.logger, data.UserID)}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := range data.SellerIDs {
		i := i
		g.Go(func() error {
			return h.notifySeller(gctx, event.Type, &data, i)
		})
	}
	joinErr := g.Wait()

	buyer := <-buyerCh
	if joinErr != nil {
		return joinErr
	}

	if buyer.user == nil {
		return nil
	}
	notification, err := renderOrderSummaryEmail(event.Type, buyer.user, &data)
	if err != nil {
		return err
	}
	return h.dispatcher.Deliver(ctx, notification)
}

// notifySeller handles one order line item: fresh seller lookup, stock
// resolution, single-item email. Duplicate seller IDs across line items
// are looked up once per item, not deduplicated.
func (h *OrderHandler) notifySeller(ctx context.Context, eventType string, data *models.OrderEventData, i int) error {
	seller := lookupRecipient(ctx, h.users, h.logger, data.SellerIDs[i])
	if seller == nil {
		return nil
	}

	remaining := remainingStock(data.RemainingQuantities, productIDAt(data, i))
	notification, err := renderOrderLineEmail(eventType, seller, titleAt(data, i), quantityAt(data, i), remaining)
	if err != nil {
		return err
	}
	return h.dispatcher.Deliver(ctx, notification)
}

// remainingStock resolves the stock left for a product by ID. First
// match wins; no match renders as "Unknown".
func remainingStock(quantities []models.RemainingQuantity, productID string) string {
	for _, rq := range quantities {
		if rq.ProductID == productID {
			return strconv.Itoa(rq.RemainingQuantity)
		}
	}
	return "Unknown"
}

// The producer guarantees SellerIDs, ProductIDs, Titles and Quantities
// are parallel arrays; these accessors keep a short payload from
// panicking the handler.

func productIDAt(data *models.OrderEventData, i int) string {
	if i < len(data.ProductIDs) {
		return data.ProductIDs[i]
	}
	return ""
}

func titleAt(data *models.OrderEventData, i int) string {
	if i < len(data.Titles) {
		return data.Titles[i]
	}
	return ""
}

func quantityAt(data *models.OrderEventData, i int) int {
	if i < len(data.Quantities) {
		return data.Quantities[i]
	}
	return 0
}
