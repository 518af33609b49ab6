// Package mocks provides testify mocks for the store package.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/vinyl-pricer/internal/store"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// MockStore is a mock implementation of store.Store.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a MockStore whose expectations are asserted when
// the test finishes.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockStore {
	m := &MockStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockStoreExpecter records expectations by method name.
type MockStoreExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter.
func (m *MockStore) EXPECT() *MockStoreExpecter {
	return &MockStoreExpecter{mock: &m.Mock}
}

// CreateItem provides a mock function.
func (m *MockStore) CreateItem(ctx context.Context, item *domain.Item) error {
	ret := m.Called(ctx, item)
	return ret.Error(0)
}

// CreateItem expects a CreateItem call.
func (e *MockStoreExpecter) CreateItem(ctx, item any) *mock.Call {
	return e.mock.On("CreateItem", ctx, item)
}

// GetItem provides a mock function.
func (m *MockStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	ret := m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Item)
	return r0, ret.Error(1)
}

// GetItem expects a GetItem call.
func (e *MockStoreExpecter) GetItem(ctx, id any) *mock.Call {
	return e.mock.On("GetItem", ctx, id)
}

// ListItems provides a mock function.
func (m *MockStore) ListItems(ctx context.Context, q *store.ItemQuery) ([]domain.Item, int, error) {
	ret := m.Called(ctx, q)
	r0, _ := ret.Get(0).([]domain.Item)
	r1, _ := ret.Get(1).(int)
	return r0, r1, ret.Error(2)
}

// ListItems expects a ListItems call.
func (e *MockStoreExpecter) ListItems(ctx, q any) *mock.Call {
	return e.mock.On("ListItems", ctx, q)
}

// UpdateItem provides a mock function.
func (m *MockStore) UpdateItem(ctx context.Context, item *domain.Item) error {
	ret := m.Called(ctx, item)
	return ret.Error(0)
}

// UpdateItem expects a UpdateItem call.
func (e *MockStoreExpecter) UpdateItem(ctx, item any) *mock.Call {
	return e.mock.On("UpdateItem", ctx, item)
}

// DeleteItem provides a mock function.
func (m *MockStore) DeleteItem(ctx context.Context, id string) error {
	ret := m.Called(ctx, id)
	return ret.Error(0)
}

// DeleteItem expects a DeleteItem call.
func (e *MockStoreExpecter) DeleteItem(ctx, id any) *mock.Call {
	return e.mock.On("DeleteItem", ctx, id)
}

// ListPendingItems provides a mock function.
func (m *MockStore) ListPendingItems(ctx context.Context, limit int) ([]domain.Item, error) {
	ret := m.Called(ctx, limit)
	r0, _ := ret.Get(0).([]domain.Item)
	return r0, ret.Error(1)
}

// ListPendingItems expects a ListPendingItems call.
func (e *MockStoreExpecter) ListPendingItems(ctx, limit any) *mock.Call {
	return e.mock.On("ListPendingItems", ctx, limit)
}

// ListStaleItems provides a mock function.
func (m *MockStore) ListStaleItems(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Item, error) {
	ret := m.Called(ctx, olderThan, limit)
	r0, _ := ret.Get(0).([]domain.Item)
	return r0, ret.Error(1)
}

// ListStaleItems expects a ListStaleItems call.
func (e *MockStoreExpecter) ListStaleItems(ctx, olderThan, limit any) *mock.Call {
	return e.mock.On("ListStaleItems", ctx, olderThan, limit)
}

// SetDiscogsRelease provides a mock function.
func (m *MockStore) SetDiscogsRelease(ctx context.Context, itemID string, releaseID int) error {
	ret := m.Called(ctx, itemID, releaseID)
	return ret.Error(0)
}

// SetDiscogsRelease expects a SetDiscogsRelease call.
func (e *MockStoreExpecter) SetDiscogsRelease(ctx, itemID, releaseID any) *mock.Call {
	return e.mock.On("SetDiscogsRelease", ctx, itemID, releaseID)
}

// MarkItemFailed provides a mock function.
func (m *MockStore) MarkItemFailed(ctx context.Context, itemID string) error {
	ret := m.Called(ctx, itemID)
	return ret.Error(0)
}

// MarkItemFailed expects a MarkItemFailed call.
func (e *MockStoreExpecter) MarkItemFailed(ctx, itemID any) *mock.Call {
	return e.mock.On("MarkItemFailed", ctx, itemID)
}

// SavePricing provides a mock function.
func (m *MockStore) SavePricing(ctx context.Context, rec *domain.PricingRecord) error {
	ret := m.Called(ctx, rec)
	return ret.Error(0)
}

// SavePricing expects a SavePricing call.
func (e *MockStoreExpecter) SavePricing(ctx, rec any) *mock.Call {
	return e.mock.On("SavePricing", ctx, rec)
}

// GetPricing provides a mock function.
func (m *MockStore) GetPricing(ctx context.Context, id string) (*domain.PricingRecord, error) {
	ret := m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.PricingRecord)
	return r0, ret.Error(1)
}

// GetPricing expects a GetPricing call.
func (e *MockStoreExpecter) GetPricing(ctx, id any) *mock.Call {
	return e.mock.On("GetPricing", ctx, id)
}

// ListPricings provides a mock function.
func (m *MockStore) ListPricings(ctx context.Context, q *store.PricingQuery) ([]domain.PricingRecord, int, error) {
	ret := m.Called(ctx, q)
	r0, _ := ret.Get(0).([]domain.PricingRecord)
	r1, _ := ret.Get(1).(int)
	return r0, r1, ret.Error(2)
}

// ListPricings expects a ListPricings call.
func (e *MockStoreExpecter) ListPricings(ctx, q any) *mock.Call {
	return e.mock.On("ListPricings", ctx, q)
}

// Summary provides a mock function.
func (m *MockStore) Summary(ctx context.Context) (*domain.PricingSummary, error) {
	ret := m.Called(ctx)
	r0, _ := ret.Get(0).(*domain.PricingSummary)
	return r0, ret.Error(1)
}

// Summary expects a Summary call.
func (e *MockStoreExpecter) Summary(ctx any) *mock.Call {
	return e.mock.On("Summary", ctx)
}

// InsertJobRun provides a mock function.
func (m *MockStore) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	ret := m.Called(ctx, jobName)
	r0, _ := ret.Get(0).(string)
	return r0, ret.Error(1)
}

// InsertJobRun expects a InsertJobRun call.
func (e *MockStoreExpecter) InsertJobRun(ctx, jobName any) *mock.Call {
	return e.mock.On("InsertJobRun", ctx, jobName)
}

// CompleteJobRun provides a mock function.
func (m *MockStore) CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error {
	ret := m.Called(ctx, id, status, errText, rowsAffected)
	return ret.Error(0)
}

// CompleteJobRun expects a CompleteJobRun call.
func (e *MockStoreExpecter) CompleteJobRun(ctx, id, status, errText, rowsAffected any) *mock.Call {
	return e.mock.On("CompleteJobRun", ctx, id, status, errText, rowsAffected)
}

// ListJobRuns provides a mock function.
func (m *MockStore) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	ret := m.Called(ctx, jobName, limit)
	r0, _ := ret.Get(0).([]domain.JobRun)
	return r0, ret.Error(1)
}

// ListJobRuns expects a ListJobRuns call.
func (e *MockStoreExpecter) ListJobRuns(ctx, jobName, limit any) *mock.Call {
	return e.mock.On("ListJobRuns", ctx, jobName, limit)
}

// ListLatestJobRuns provides a mock function.
func (m *MockStore) ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error) {
	ret := m.Called(ctx)
	r0, _ := ret.Get(0).([]domain.JobRun)
	return r0, ret.Error(1)
}

// ListLatestJobRuns expects a ListLatestJobRuns call.
func (e *MockStoreExpecter) ListLatestJobRuns(ctx any) *mock.Call {
	return e.mock.On("ListLatestJobRuns", ctx)
}

// RecoverStaleJobRuns provides a mock function.
func (m *MockStore) RecoverStaleJobRuns(ctx context.Context, olderThan time.Duration) (int, error) {
	ret := m.Called(ctx, olderThan)
	r0, _ := ret.Get(0).(int)
	return r0, ret.Error(1)
}

// RecoverStaleJobRuns expects a RecoverStaleJobRuns call.
func (e *MockStoreExpecter) RecoverStaleJobRuns(ctx, olderThan any) *mock.Call {
	return e.mock.On("RecoverStaleJobRuns", ctx, olderThan)
}

// Migrate provides a mock function.
func (m *MockStore) Migrate(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// Migrate expects a Migrate call.
func (e *MockStoreExpecter) Migrate(ctx any) *mock.Call {
	return e.mock.On("Migrate", ctx)
}

// Ping provides a mock function.
func (m *MockStore) Ping(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

// Ping expects a Ping call.
func (e *MockStoreExpecter) Ping(ctx any) *mock.Call {
	return e.mock.On("Ping", ctx)
}

var _ store.Store = (*MockStore)(nil)
