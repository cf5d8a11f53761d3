package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func orderEvent(t *testing.T, eventType string, data models.OrderEventData) *models.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	assert.NoError(t, err)
	return &models.Event{Type: eventType, Data: raw}
}

func TestOrderHandlerFanOut(t *testing.T) {
	ctx := context.Background()
	buyer := &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: "buyer"}
	sellerOne := &models.User{ID: "s1", Username: "bob", Email: "bob@example.com", Role: "seller"}
	sellerTwo := &models.User{ID: "s2", Username: "carol", Email: "carol@example.com", Role: "seller"}

	twoItems := models.OrderEventData{
		UserID:     "u1",
		SellerIDs:  []string{"s1", "s2"},
		ProductIDs: []string{"p1", "p2"},
		Titles:     []string{"Keyboard", "Mouse"},
		Quantities: []int{2, 1},
		RemainingQuantities: []models.RemainingQuantity{
			{ProductID: "p2", RemainingQuantity: 5},
		},
	}

	t.Run("Placed Sends N Seller Emails And One Buyer Summary", func(t *testing.T) {
		repo := newMockUserRepo(buyer, sellerOne, sellerTwo)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, orderEvent(t, models.TypeOrderPlaced, twoItems))

		assert.NoError(t, err)
		assert.Equal(t, 3, dispatcher.sentCount())
		assert.Len(t, dispatcher.sentTo("bob@example.com"), 1)
		assert.Len(t, dispatcher.sentTo("carol@example.com"), 1)

		buyerMail := dispatcher.sentTo("alice@example.com")
		if assert.Len(t, buyerMail, 1) {
			assert.Contains(t, buyerMail[0].Subject, "placed")
			assert.Contains(t, buyerMail[0].Text, "Keyboard")
			assert.Contains(t, buyerMail[0].Text, "Mouse")
		}
	})

	t.Run("Remaining Stock Resolved By Product ID", func(t *testing.T) {
		repo := newMockUserRepo(buyer, sellerOne, sellerTwo)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, orderEvent(t, models.TypeOrderPlaced, twoItems))

		assert.NoError(t, err)
		itemOne := dispatcher.sentTo("bob@example.com")
		if assert.Len(t, itemOne, 1) {
			assert.Contains(t, itemOne[0].Text, "Unknown")
		}
		itemTwo := dispatcher.sentTo("carol@example.com")
		if assert.Len(t, itemTwo, 1) {
			assert.Contains(t, itemTwo[0].Text, "remaining stock: 5")
		}
	})

	t.Run("Duplicate Seller Looked Up Per Line Item", func(t *testing.T) {
		repo := newMockUserRepo(buyer, sellerOne)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		data := models.OrderEventData{
			UserID:     "u1",
			SellerIDs:  []string{"s1", "s1"},
			ProductIDs: []string{"p1", "p3"},
			Titles:     []string{"Keyboard", "Keycaps"},
			Quantities: []int{1, 1},
		}
		err := handler.Handle(ctx, orderEvent(t, models.TypeOrderPlaced, data))

		assert.NoError(t, err)
		assert.Equal(t, 2, repo.lookupCount("s1"))
		assert.Len(t, dispatcher.sentTo("bob@example.com"), 2)
	})

	t.Run("Seller Send Failure Fails Whole Event And Skips Buyer", func(t *testing.T) {
		repo := newMockUserRepo(buyer, sellerOne, sellerTwo)
		dispatcher := newMockDispatcher()
		dispatcher.failFor["carol@example.com"] = errors.New("smtp send failed")
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, orderEvent(t, models.TypeOrderPlaced, twoItems))

		assert.Error(t, err)
		assert.Empty(t, dispatcher.sentTo("alice@example.com"))
	})

	t.Run("Deleted With One Seller Missing", func(t *testing.T) {
		// s2 unresolvable: no email for them, but the other seller and
		// the buyer are still notified and the event succeeds.
		repo := newMockUserRepo(buyer, sellerOne)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, orderEvent(t, models.TypeOrderDeleted, twoItems))

		assert.NoError(t, err)
		sellerMail := dispatcher.sentTo("bob@example.com")
		if assert.Len(t, sellerMail, 1) {
			assert.Contains(t, sellerMail[0].Subject, "cancelled")
		}
		buyerMail := dispatcher.sentTo("alice@example.com")
		if assert.Len(t, buyerMail, 1) {
			assert.Contains(t, buyerMail[0].Subject, "cancelled")
			assert.Contains(t, buyerMail[0].Text, "Keyboard")
			assert.Contains(t, buyerMail[0].Text, "Mouse")
		}
	})

	t.Run("Buyer Miss Still Notifies Sellers", func(t *testing.T) {
		repo := newMockUserRepo(sellerOne, sellerTwo)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, orderEvent(t, models.TypeOrderUpdated, twoItems))

		assert.NoError(t, err)
		assert.Equal(t, 2, dispatcher.sentCount())
		assert.Empty(t, dispatcher.sentTo("alice@example.com"))
	})

	t.Run("Unknown Type Acked Without Side Effects", func(t *testing.T) {
		repo := newMockUserRepo(buyer, sellerOne, sellerTwo)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, orderEvent(t, "order_archived", twoItems))

		assert.NoError(t, err)
		assert.Empty(t, repo.lookups)
		assert.Zero(t, dispatcher.sentCount())
	})

	t.Run("Malformed Data Fails", func(t *testing.T) {
		repo := newMockUserRepo(buyer)
		dispatcher := newMockDispatcher()
		handler := NewOrderHandler(repo, dispatcher, zap.NewNop())

		err := handler.Handle(ctx, &models.Event{Type: models.TypeOrderPlaced, Data: []byte(`[1,2]`)})

		assert.Error(t, err)
		assert.Zero(t, dispatcher.sentCount())
	})
}

func TestRemainingStock(t *testing.T) {
	quantities := []models.RemainingQuantity{
		{ProductID: "p2", RemainingQuantity: 5},
		{ProductID: "p2", RemainingQuantity: 9},
	}

	assert.Equal(t, "Unknown", remainingStock(quantities, "p1"))
	// first match wins
	assert.Equal(t, "5", remainingStock(quantities, "p2"))
	assert.Equal(t, "Unknown", remainingStock(nil, "p1"))
}
