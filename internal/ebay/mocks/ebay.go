// Package mocks provides testify mocks for the ebay package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSearcher is a mock implementation of ebay.Searcher.
type MockSearcher struct {
	mock.Mock
}

// NewMockSearcher creates a MockSearcher whose expectations are
// asserted when the test finishes.
func NewMockSearcher(t testingT) *MockSearcher {
	m := &MockSearcher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockSearcherExpecter records expectations by method name.
type MockSearcherExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter.
func (m *MockSearcher) EXPECT() *MockSearcherExpecter {
	return &MockSearcherExpecter{mock: &m.Mock}
}

// Search provides a mock function.
func (m *MockSearcher) Search(ctx context.Context, req ebay.SearchRequest) (*ebay.SearchResponse, error) {
	ret := m.Called(ctx, req)
	r0, _ := ret.Get(0).(*ebay.SearchResponse)
	return r0, ret.Error(1)
}

// Search expects a Search call.
func (e *MockSearcherExpecter) Search(ctx, req any) *mock.Call {
	return e.mock.On("Search", ctx, req)
}

// MockTokenProvider is a mock implementation of ebay.TokenProvider.
type MockTokenProvider struct {
	mock.Mock
}

// NewMockTokenProvider creates a MockTokenProvider whose expectations are
// asserted when the test finishes.
func NewMockTokenProvider(t testingT) *MockTokenProvider {
	m := &MockTokenProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockTokenProviderExpecter records expectations by method name.
type MockTokenProviderExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter.
func (m *MockTokenProvider) EXPECT() *MockTokenProviderExpecter {
	return &MockTokenProviderExpecter{mock: &m.Mock}
}

// Token provides a mock function.
func (m *MockTokenProvider) Token(ctx context.Context) (string, error) {
	ret := m.Called(ctx)
	return ret.String(0), ret.Error(1)
}

// Token expects a Token call.
func (e *MockTokenProviderExpecter) Token(ctx any) *mock.Call {
	return e.mock.On("Token", ctx)
}

var (
	_ ebay.Searcher      = (*MockSearcher)(nil)
	_ ebay.TokenProvider = (*MockTokenProvider)(nil)
)
