package services

import (
	"context"
	"sync"

	"github.com/Airlectric/E-commerce-notifications-microservice/models"
	"github.com/Airlectric/E-commerce-notifications-microservice/repository"
)

// ---- mock user repository ----

type mockUserRepo struct {
	mu      sync.Mutex
	users   map[string]*models.User
	findErr map[string]error
	lookups []string
	upserts []models.User

	upsertErr error
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{
		users:   make(map[string]*models.User),
		findErr: make(map[string]error),
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) FindByExternalID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, id)
	if err, ok := m.findErr[id]; ok {
		return nil, err
	}
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) UpsertByExternalID(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, *user)
	stored, ok := m.users[user.ID]
	if !ok {
		copied := *user
		m.users[user.ID] = &copied
		return nil
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.Role = user.Role
	return nil
}

func (m *mockUserRepo) lookupCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, looked := range m.lookups {
		if looked == id {
			n++
		}
	}
	return n
}

// ---- mock dispatcher ----

type mockDispatcher struct {
	mu        sync.Mutex
	delivered []*models.EmailNotification
	failFor   map[string]error // recipient address → forced send error
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{failFor: make(map[string]error)}
}

func (m *mockDispatcher) Deliver(_ context.Context, n *models.EmailNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[n.Recipient]; ok {
		return err
	}
	m.delivered = append(m.delivered, n)
	return nil
}

func (m *mockDispatcher) GetLogs(_ context.Context, _ models.NotificationFilter) ([]models.NotificationLog, int64, error) {
	return nil, 0, nil
}

func (m *mockDispatcher) sentTo(recipient string) []*models.EmailNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.EmailNotification
	for _, n := range m.delivered {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	return out
}

func (m *mockDispatcher) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.delivered)
}
