// Package mocks provides testify mocks for the discogs package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/vinyl-pricer/internal/discogs"
)

// MockClient is a mock implementation of discogs.Client.
type MockClient struct {
	mock.Mock
}

// NewMockClient creates a MockClient whose expectations are asserted when
// the test finishes.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockClient {
	m := &MockClient{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockClientExpecter records expectations by method name.
type MockClientExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter.
func (m *MockClient) EXPECT() *MockClientExpecter {
	return &MockClientExpecter{mock: &m.Mock}
}

// SearchRelease provides a mock function.
func (m *MockClient) SearchRelease(ctx context.Context, req discogs.SearchRequest) (*discogs.Release, error) {
	ret := m.Called(ctx, req)
	r0, _ := ret.Get(0).(*discogs.Release)
	return r0, ret.Error(1)
}

// SearchRelease expects a SearchRelease call.
func (e *MockClientExpecter) SearchRelease(ctx, req any) *mock.Call {
	return e.mock.On("SearchRelease", ctx, req)
}

// MarketplaceStats provides a mock function.
func (m *MockClient) MarketplaceStats(ctx context.Context, releaseID int) (*discogs.MarketplaceStats, error) {
	ret := m.Called(ctx, releaseID)
	r0, _ := ret.Get(0).(*discogs.MarketplaceStats)
	return r0, ret.Error(1)
}

// MarketplaceStats expects a MarketplaceStats call.
func (e *MockClientExpecter) MarketplaceStats(ctx, releaseID any) *mock.Call {
	return e.mock.On("MarketplaceStats", ctx, releaseID)
}

// PriceSuggestions provides a mock function.
func (m *MockClient) PriceSuggestions(ctx context.Context, releaseID int) (discogs.PriceSuggestions, error) {
	ret := m.Called(ctx, releaseID)
	r0, _ := ret.Get(0).(discogs.PriceSuggestions)
	return r0, ret.Error(1)
}

// PriceSuggestions expects a PriceSuggestions call.
func (e *MockClientExpecter) PriceSuggestions(ctx, releaseID any) *mock.Call {
	return e.mock.On("PriceSuggestions", ctx, releaseID)
}

var _ discogs.Client = (*MockClient)(nil)
