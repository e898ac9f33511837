package commit

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/dash/internal/services"
)

type MockCommitService struct {
	mock.Mock
}

func (m *MockCommitService) Collect(ctx context.Context, opts services.CommitOptions) (*services.StagedChanges, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.StagedChanges), args.Error(1)
}

func (m *MockCommitService) Generate(ctx context.Context, changes *services.StagedChanges) ([]string, error) {
	args := m.Called(ctx, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCommitter struct {
	mock.Mock
}

func (m *MockCommitter) Commit(ctx context.Context, message string, extra ...string) error {
	if len(extra) == 0 {
		extra = nil
	}
	args := m.Called(ctx, message, extra)
	return args.Error(0)
}
