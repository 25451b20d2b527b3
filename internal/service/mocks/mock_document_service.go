package mocks

import (
	"context"

	"propdocs/internal/model"
	"propdocs/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Generate(ctx context.Context, in service.GenerateInput) (*model.PropertyDocument, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyDocument), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, propertyID string) ([]model.PropertyDocument, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PropertyDocument), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, fileName string) (string, error) {
	args := m.Called(ctx, fileName)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, fileName, propertyID string) error {
	args := m.Called(ctx, fileName, propertyID)
	return args.Error(0)
}

func (m *MockDocumentService) Orphans(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
