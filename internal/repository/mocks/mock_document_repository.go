package mocks

import (
	"context"

	"propdocs/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.PropertyDocument) (*model.PropertyDocument, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.PropertyDocument, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PropertyDocument), args.Error(1)
}

func (m *MockDocumentRepository) ListFileNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, fileName, propertyID string) error {
	args := m.Called(ctx, fileName, propertyID)
	return args.Error(0)
}
