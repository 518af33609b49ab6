// Package mocks provides testify mocks for the musicbrainz package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/vinyl-pricer/internal/musicbrainz"
)

// MockClient is a mock implementation of musicbrainz.Client.
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

// SearchReleases provides a mock function.
func (m *MockClient) SearchReleases(ctx context.Context, req musicbrainz.SearchRequest) ([]musicbrainz.Release, error) {
	ret := m.Called(ctx, req)
	r0, _ := ret.Get(0).([]musicbrainz.Release)
	return r0, ret.Error(1)
}

// SearchReleases expects a SearchReleases call.
func (e *MockClientExpecter) SearchReleases(ctx, req any) *mock.Call {
	return e.mock.On("SearchReleases", ctx, req)
}

// LookupRelease provides a mock function.
func (m *MockClient) LookupRelease(ctx context.Context, mbid string) (*musicbrainz.Release, error) {
	ret := m.Called(ctx, mbid)
	r0, _ := ret.Get(0).(*musicbrainz.Release)
	return r0, ret.Error(1)
}

// LookupRelease expects a LookupRelease call.
func (e *MockClientExpecter) LookupRelease(ctx, mbid any) *mock.Call {
	return e.mock.On("LookupRelease", ctx, mbid)
}

var _ musicbrainz.Client = (*MockClient)(nil)
