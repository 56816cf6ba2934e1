package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a mock implementation of the text model client
type MockTextGenerator struct {
	mock.Mock
}

// GenerateText mocks the GenerateText method
func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockTracker is a mock implementation of the submission tracker
type MockTracker struct {
	mock.Mock
}

// Begin mocks the Begin method
func (m *MockTracker) Begin(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// IsLatest mocks the IsLatest method
func (m *MockTracker) IsLatest(ctx context.Context, key string, seq int64) (bool, error) {
	args := m.Called(ctx, key, seq)
	return args.Bool(0), args.Error(1)
}
