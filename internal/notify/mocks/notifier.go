// Package mocks provides testify mocks for the notify package.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/donaldgifford/vinyl-pricer/internal/notify"
)

// MockNotifier is a mock implementation of notify.Notifier.
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a MockNotifier whose expectations are asserted
// when the test finishes.
func NewMockNotifier(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockNotifier {
	m := &MockNotifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockNotifierExpecter records expectations by method name.
type MockNotifierExpecter struct {
	mock *mock.Mock
}

// EXPECT returns the expecter.
func (m *MockNotifier) EXPECT() *MockNotifierExpecter {
	return &MockNotifierExpecter{mock: &m.Mock}
}

// SendRunReport provides a mock function.
func (m *MockNotifier) SendRunReport(ctx context.Context, report *notify.RunReport) error {
	ret := m.Called(ctx, report)
	return ret.Error(0)
}

// SendRunReport expects a SendRunReport call.
func (e *MockNotifierExpecter) SendRunReport(ctx, report any) *mock.Call {
	return e.mock.On("SendRunReport", ctx, report)
}

var _ notify.Notifier = (*MockNotifier)(nil)
