package pull_requests

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/dash/internal/models"
	"github.com/thomas-vilte/dash/internal/services"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) Gather(ctx context.Context, baseOverride string) (*services.BranchChanges, error) {
	args := m.Called(ctx, baseOverride)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.BranchChanges), args.Error(1)
}

func (m *MockPRService) Draft(ctx context.Context, changes *services.BranchChanges, issue int) (*services.PRDraft, error) {
	args := m.Called(ctx, changes, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PRDraft), args.Error(1)
}

func (m *MockPRService) Create(ctx context.Context, draft *services.PRDraft, asDraft bool) (*models.PullRequest, error) {
	args := m.Called(ctx, draft, asDraft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PullRequest), args.Error(1)
}

func (m *MockPRService) Revise(ctx context.Context, number int, request string) (*services.PRRevision, error) {
	args := m.Called(ctx, number, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PRRevision), args.Error(1)
}

func (m *MockPRService) Apply(ctx context.Context, number int, content models.PRContent) error {
	args := m.Called(ctx, number, content)
	return args.Error(0)
}

func (m *MockPRService) Merge(ctx context.Context, number int, method string) (string, error) {
	args := m.Called(ctx, number, method)
	return args.String(0), args.Error(1)
}

func (m *MockPRService) List(ctx context.Context, state string, limit int) ([]models.PullRequest, error) {
	args := m.Called(ctx, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PullRequest), args.Error(1)
}
