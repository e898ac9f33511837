package issues

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/dash/internal/models"
)

type MockIssueService struct {
	mock.Mock
}

func (m *MockIssueService) List(ctx context.Context, state string, limit int) ([]models.Issue, error) {
	args := m.Called(ctx, state, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Issue), args.Error(1)
}

func (m *MockIssueService) Draft(ctx context.Context, description string, tmpl *models.IssueTemplate) (models.IssueDraft, error) {
	args := m.Called(ctx, description, tmpl)
	return args.Get(0).(models.IssueDraft), args.Error(1)
}

func (m *MockIssueService) Create(ctx context.Context, draft models.IssueDraft) (*models.Issue, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Issue), args.Error(1)
}

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) ListTemplates(ctx context.Context) ([]*models.IssueTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.IssueTemplate), args.Error(1)
}

func (m *MockTemplateService) GetTemplate(ctx context.Context, name string) (*models.IssueTemplate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IssueTemplate), args.Error(1)
}
