package config

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockGHChecker struct {
	mock.Mock
}

func (m *MockGHChecker) Installed(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func (m *MockGHChecker) Authenticated(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}
