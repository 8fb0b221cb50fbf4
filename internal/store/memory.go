package store

import (
	"context"
	"sync"
	"time"

	"inout-engine/internal/models"
)

// MemoryStore is an in-memory implementation of RecordStore, CategoryStore
// and SubscriptionStore. It backs unit tests and supports fault injection
// through the error fields: set FetchErr, CategoryFetchErr, SubscriptionFetchErr
// or CommitErr to make the corresponding operation fail.
type MemoryStore struct {
	mu sync.Mutex

	records       []*models.TransactionRecord
	categories    []*models.Category
	subscriptions []*models.Subscription

	stagedRecords []*models.TransactionRecord
	stagedCursors map[string]time.Time

	FetchErr             error
	CategoryFetchErr     error
	SubscriptionFetchErr error
	CommitErr            error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stagedCursors: make(map[string]time.Time),
	}
}

// FetchAll returns a snapshot of the committed records.
func (m *MemoryStore) FetchAll(ctx context.Context) ([]*models.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FetchErr != nil {
		return nil, m.FetchErr
	}

	snapshot := make([]*models.TransactionRecord, len(m.records))
	copy(snapshot, m.records)
	return snapshot, nil
}

// Create stages a record for the current batch.
func (m *MemoryStore) Create(record *models.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stagedRecords = append(m.stagedRecords, record)
}

// Commit applies all staged records and cursor advances atomically. On
// failure the staged batch is discarded so the store looks untouched.
func (m *MemoryStore) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CommitErr != nil {
		m.stagedRecords = nil
		m.stagedCursors = make(map[string]time.Time)
		return m.CommitErr
	}

	m.records = append(m.records, m.stagedRecords...)
	for id, cursor := range m.stagedCursors {
		for _, sub := range m.subscriptions {
			if sub.ID == id {
				c := cursor
				sub.LastGeneratedDate = &c
			}
		}
	}

	m.stagedRecords = nil
	m.stagedCursors = make(map[string]time.Time)
	return nil
}

func (m *MemoryStore) fetchAllCategories(ctx context.Context) ([]*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CategoryFetchErr != nil {
		return nil, m.CategoryFetchErr
	}

	snapshot := make([]*models.Category, len(m.categories))
	copy(snapshot, m.categories)
	return snapshot, nil
}

func (m *MemoryStore) createCategory(ctx context.Context, name string, kind models.RecordKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := models.NewCategoryKey(name, kind)
	for _, existing := range m.categories {
		if existing.Key() == key {
			return nil
		}
	}

	m.categories = append(m.categories, models.NewCategory(key.Name, key.Kind))
	return nil
}

func (m *MemoryStore) fetchAllSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SubscriptionFetchErr != nil {
		return nil, m.SubscriptionFetchErr
	}

	snapshot := make([]*models.Subscription, len(m.subscriptions))
	copy(snapshot, m.subscriptions)
	return snapshot, nil
}

func (m *MemoryStore) saveCursor(ctx context.Context, id string, cursor time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stagedCursors[id] = cursor
	return nil
}

// AddSubscription registers a subscription definition directly, bypassing
// staging. Intended for test setup.
func (m *MemoryStore) AddSubscription(sub *models.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscriptions = append(m.subscriptions, sub)
}

// AddRecord commits a record directly, bypassing staging. Intended for test
// setup of pre-existing data.
func (m *MemoryStore) AddRecord(record *models.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, record)
}

// AddCategory commits a category directly, bypassing staging. Intended for
// test setup.
func (m *MemoryStore) AddCategory(category *models.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.categories = append(m.categories, category)
}

// StagedCount reports how many records are currently staged, for tests that
// assert atomicity.
func (m *MemoryStore) StagedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.stagedRecords)
}

// memoryCategoryStore adapts MemoryStore to the CategoryStore interface.
type memoryCategoryStore struct {
	store *MemoryStore
}

// Categories returns the CategoryStore view of the store.
func (m *MemoryStore) Categories() CategoryStore {
	return &memoryCategoryStore{store: m}
}

func (c *memoryCategoryStore) FetchAll(ctx context.Context) ([]*models.Category, error) {
	return c.store.fetchAllCategories(ctx)
}

func (c *memoryCategoryStore) Create(ctx context.Context, name string, kind models.RecordKind) error {
	return c.store.createCategory(ctx, name, kind)
}

// memorySubscriptionStore adapts MemoryStore to the SubscriptionStore interface.
type memorySubscriptionStore struct {
	store *MemoryStore
}

// Subscriptions returns the SubscriptionStore view of the store.
func (m *MemoryStore) Subscriptions() SubscriptionStore {
	return &memorySubscriptionStore{store: m}
}

func (s *memorySubscriptionStore) FetchAll(ctx context.Context) ([]*models.Subscription, error) {
	return s.store.fetchAllSubscriptions(ctx)
}

func (s *memorySubscriptionStore) SaveCursor(ctx context.Context, id string, cursor time.Time) error {
	return s.store.saveCursor(ctx, id, cursor)
}
