package pantry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"kitchenops/internal/events"
	"kitchenops/internal/models"
	"kitchenops/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

// countingStore wraps a memory store and counts writes
type countingStore struct {
	*store.MemoryStore
	mu      sync.Mutex
	saves   int
	loadErr error
	saveErr error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: store.NewMemoryStore()}
}

func (s *countingStore) Load(ctx context.Context) ([]models.InventoryItem, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(ctx)
}

func (s *countingStore) Save(ctx context.Context, items []models.InventoryItem) error {
	s.mu.Lock()
	s.saves++
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryStore.Save(ctx, items)
}

func (s *countingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (c *capturePublisher) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return c.err
}

func (c *capturePublisher) Close() error { return nil }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestPantry(t *testing.T, opts ...Option) (*Pantry, *countingStore, *capturePublisher) {
	t.Helper()
	s := newCountingStore()
	pub := &capturePublisher{}
	base := []Option{
		WithPublisher(pub),
		WithClock(func() time.Time { return testNow }),
		WithIDs(sequentialIDs()),
	}
	p := New(s, append(base, opts...)...)
	return p, s, pub
}

func itemIDs(items []models.InventoryItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	p, s, _ := newTestPantry(t)

	p.Load(context.Background())

	items := p.Snapshot()
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, itemIDs(items))
	assert.Equal(t, 1, s.saveCount())

	stored, err := s.MemoryStore.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestLoadSeedsOnReadFailure(t *testing.T) {
	p, s, _ := newTestPantry(t)
	s.loadErr = errors.New("corrupt document")

	p.Load(context.Background())

	assert.Len(t, p.Snapshot(), 6)
}

func TestLoadKeepsStoredItems(t *testing.T) {
	p, s, _ := newTestPantry(t)
	require.NoError(t, s.MemoryStore.Save(context.Background(), []models.InventoryItem{{ID: "only", Name: "Saffron"}}))

	p.Load(context.Background())

	assert.Equal(t, []string{"only"}, itemIDs(p.Snapshot()))
	assert.Equal(t, 0, s.saveCount())
}

// metricsSink records the last value per metric name
type metricsSink struct {
	mu     sync.Mutex
	values map[string]interface{}
}

func (m *metricsSink) RecordMetric(name string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	m.values[name] = value
}

func TestMetricsFollowCollection(t *testing.T) {
	sink := &metricsSink{}
	p, _, _ := newTestPantry(t, WithMetrics(sink))

	p.Load(context.Background())
	assert.Equal(t, true, sink.values["inventory_seeded"])
	assert.Equal(t, 6, sink.values["items_loaded"])
	assert.Equal(t, 6, sink.values["items_total"])

	require.NoError(t, p.Add(context.Background(), models.InventoryItem{ID: "extra", Name: "Capers"}))
	assert.Equal(t, 7, sink.values["items_total"])

	_, err := p.Delete(context.Background(), "1")
	require.NoError(t, err)
	_, err = p.Delete(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, 5, sink.values["items_total"])
	assert.Equal(t, 6, sink.values["items_loaded"])
}

func TestMetricsReportStoredLoad(t *testing.T) {
	sink := &metricsSink{}
	p, s, _ := newTestPantry(t, WithMetrics(sink))
	require.NoError(t, s.MemoryStore.Save(context.Background(), []models.InventoryItem{{ID: "only", Name: "Saffron"}}))

	p.Load(context.Background())

	assert.Equal(t, false, sink.values["inventory_seeded"])
	assert.Equal(t, 1, sink.values["items_loaded"])
}

func TestSnapshotIsACopy(t *testing.T) {
	p, _, _ := newTestPantry(t)
	p.Load(context.Background())

	snap := p.Snapshot()
	snap[0].Name = "changed"

	item, ok := p.Get(snap[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Basmati Rice (Royal)", item.Name)
}

func TestAddPrependsPersistsAndPublishes(t *testing.T) {
	p, s, pub := newTestPantry(t)
	p.Load(context.Background())
	ctx := WithStaffID(context.Background(), "chef-7")

	err := p.Add(ctx, models.InventoryItem{ID: "a"}, models.InventoryItem{ID: "b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "1", "2", "3", "4", "5", "6"}, itemIDs(p.Snapshot()))
	assert.Equal(t, 2, s.saveCount())

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ItemsAdded, pub.events[0].Type)
	assert.Equal(t, []string{"a", "b"}, pub.events[0].ItemIDs)
	assert.Equal(t, "chef-7", pub.events[0].StaffID)
	assert.Equal(t, testNow, pub.events[0].At)
}

func TestAddNothingIsANoop(t *testing.T) {
	p, s, pub := newTestPantry(t)
	p.Load(context.Background())

	require.NoError(t, p.Add(context.Background()))

	assert.Equal(t, 1, s.saveCount())
	assert.Empty(t, pub.events)
}

func TestAddRollsBackOnSaveFailure(t *testing.T) {
	p, s, pub := newTestPantry(t)
	p.Load(context.Background())
	s.saveErr = errors.New("disk full")

	err := p.Add(context.Background(), models.InventoryItem{ID: "a"})

	assert.ErrorContains(t, err, "disk full")
	assert.Len(t, p.Snapshot(), 6)
	assert.Empty(t, pub.events)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	p, _, pub := newTestPantry(t)
	p.Load(context.Background())
	pub.err = errors.New("broker down")

	require.NoError(t, p.Add(context.Background(), models.InventoryItem{ID: "a"}))
	assert.Len(t, p.Snapshot(), 7)
}

func TestDelete(t *testing.T) {
	p, s, pub := newTestPantry(t)
	p.Load(context.Background())

	removed, err := p.Delete(context.Background(), "3")
	require.NoError(t, err)

	assert.Equal(t, "Ribeye Loin (Whole)", removed.Name)
	assert.Equal(t, []string{"1", "2", "4", "5", "6"}, itemIDs(p.Snapshot()))
	assert.Equal(t, 2, s.saveCount())
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.ItemsDeleted, pub.events[0].Type)
	assert.Equal(t, []string{"3"}, pub.events[0].ItemIDs)
}

func TestDeleteUnknownItem(t *testing.T) {
	p, s, pub := newTestPantry(t)
	p.Load(context.Background())

	_, err := p.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, 1, s.saveCount())
	assert.Empty(t, pub.events)
}

func TestDeleteRollsBackOnSaveFailure(t *testing.T) {
	p, s, _ := newTestPantry(t)
	p.Load(context.Background())
	s.saveErr = errors.New("read-only")

	_, err := p.Delete(context.Background(), "1")

	assert.Error(t, err)
	assert.Len(t, p.Snapshot(), 6)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	p, s, _ := newTestPantry(t, WithIDs(func() string { return "unused" }))
	p.Load(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = p.Add(context.Background(), models.InventoryItem{ID: fmt.Sprintf("c%d", i)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, p.Snapshot(), 26)
	stored, err := s.MemoryStore.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 26)
}
