package mocks

import (
	"context"
	"io"

	"famdrop/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, r io.Reader, originalName string, contentType string, size int64) (*model.File, error) {
	args := m.Called(ctx, r, originalName, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context) ([]model.File, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Open(ctx context.Context, fileName string) (io.ReadCloser, *model.File, error) {
	args := m.Called(ctx, fileName)
	rc, _ := args.Get(0).(io.ReadCloser)
	if args.Get(1) == nil {
		return rc, nil, args.Error(2)
	}
	return rc, args.Get(1).(*model.File), args.Error(2)
}

func (m *MockFileService) Delete(ctx context.Context, id string) (*model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}
