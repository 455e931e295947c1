package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"famdrop/internal/filetype"
	"famdrop/internal/storage"
	storeMocks "famdrop/internal/storage/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		originalName string
		contentType  string
		size         int64
		setupMocks   func(mStore *storeMocks.MockStorage) io.Reader
		wantErr      error
		wantErrMsg   string
	}{
		{
			name:         "happy path",
			originalName: "vacation.JPG",
			contentType:  "image/jpeg",
			size:         11,
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", ctx, mock.MatchedBy(func(name string) bool {
					if !strings.HasSuffix(name, ".jpg") {
						return false
					}
					// The stored name must be a parseable UUID plus extension.
					_, err := uuid.Parse(strings.TrimSuffix(name, ".jpg"))
					return err == nil
				}), r, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.Size == 11 &&
						opt.ContentType == "image/jpeg" &&
						opt.Metadata["original-filename"] == "vacation.JPG"
				})).Return(func(ctx context.Context, name string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Name: name, Size: opt.Size, ContentType: opt.ContentType}
				}, nil)
				return r
			},
		},
		{
			name:         "validation error - nil reader",
			originalName: "test.txt",
			contentType:  "text/plain",
			setupMocks:   func(mStore *storeMocks.MockStorage) io.Reader { return nil },
			wantErr:      ErrNoFile,
		},
		{
			name:         "validation error - oversize",
			originalName: "big.pdf",
			contentType:  "application/pdf",
			size:         filetype.MaxUploadBytes + 1,
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				return strings.NewReader("x")
			},
			wantErr: ErrFileTooLarge,
		},
		{
			name:         "validation error - disallowed type",
			originalName: "archive.zip",
			contentType:  "application/zip",
			size:         5,
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				return strings.NewReader("zipzip")
			},
			wantErr: ErrTypeNotAllowed,
		},
		{
			name:         "storage error",
			originalName: "test.txt",
			contentType:  "text/plain",
			size:         5,
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("disk full"))
				return r
			},
			wantErrMsg: "upload to storage: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			svc := NewFileService(mStore)

			r := tt.setupMocks(mStore)

			file, err := svc.Upload(ctx, r, tt.originalName, tt.contentType, tt.size)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, file)
				assert.Equal(t, tt.originalName, file.OriginalName)
				assert.Equal(t, file.ID+".jpg", file.FileName)
				assert.Equal(t, "/uploads/"+file.FileName, file.URL)
				assert.NotContains(t, file.ID, ".")
			}

			mStore.AssertExpectations(t)
		})
	}
}

func TestFileService_List(t *testing.T) {
	ctx := context.Background()
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	t.Run("sorted newest first with reconstructed metadata", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{
			{Name: "aaa.txt", Size: 3, LastModified: older, Metadata: map[string]string{"original-filename": "a.txt"}},
			{Name: "bbb.png", Size: 7, LastModified: newer},
		}, nil)

		svc := NewFileService(mStore)
		files, err := svc.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, files, 2)
		assert.Equal(t, "bbb", files[0].ID)
		assert.Equal(t, "image/png", files[0].ContentType)
		assert.Equal(t, "aaa", files[1].ID)
		assert.Equal(t, "text/plain", files[1].ContentType)
		assert.Equal(t, "a.txt", files[1].OriginalName)
		assert.Equal(t, "/uploads/bbb.png", files[0].URL)
		mStore.AssertExpectations(t)
	})

	t.Run("recorded upload time wins over mtime", func(t *testing.T) {
		recorded := older.Add(30 * time.Minute)
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{
			{Name: "aaa.txt", LastModified: older, Metadata: map[string]string{
				"uploaded-at": recorded.Format(time.RFC3339Nano),
			}},
		}, nil)

		svc := NewFileService(mStore)
		files, err := svc.List(ctx)

		assert.NoError(t, err)
		assert.True(t, files[0].UploadedAt.Equal(recorded))
	})

	t.Run("unknown extension falls back to octet-stream", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{
			{Name: "ccc.bin", LastModified: older},
		}, nil)

		svc := NewFileService(mStore)
		files, err := svc.List(ctx)

		assert.NoError(t, err)
		assert.Equal(t, "application/octet-stream", files[0].ContentType)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return(nil, errors.New("io error"))

		svc := NewFileService(mStore)
		_, err := svc.List(ctx)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "list storage")
	})
}

func TestFileService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path uses recorded content type", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "abc.md").Return(
			io.NopCloser(strings.NewReader("# hi")),
			storage.ObjectInfo{Name: "abc.md", Size: 4, ContentType: "text/markdown; charset=utf-8"},
			nil,
		)

		svc := NewFileService(mStore)
		rc, file, err := svc.Open(ctx, "abc.md")

		assert.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, "text/markdown; charset=utf-8", file.ContentType)
		assert.Equal(t, "abc", file.ID)
	})

	t.Run("missing object maps to ErrNotFound", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "nope.txt").Return(nil, storage.ObjectInfo{}, storage.ErrNotExist)

		svc := NewFileService(mStore)
		_, _, err := svc.Open(ctx, "nope.txt")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()
	id := "2fd1b06a-90c1-4fd5-b34a-6ad40e5a7c54"

	t.Run("happy path - prefix match", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{
			{Name: "other.txt"},
			{Name: id + ".png", Size: 9},
		}, nil)
		mStore.On("Delete", ctx, id+".png").Return(nil)

		svc := NewFileService(mStore)
		file, err := svc.Delete(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, id+".png", file.FileName)
		mStore.AssertExpectations(t)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewFileService(new(storeMocks.MockStorage))
		_, err := svc.Delete(ctx, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no match", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{{Name: "other.txt"}}, nil)

		svc := NewFileService(mStore)
		_, err := svc.Delete(ctx, id)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unreadable listing reads as not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return(nil, errors.New("io error"))

		svc := NewFileService(mStore)
		_, err := svc.Delete(ctx, id)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("storage delete error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("List", ctx).Return([]storage.ObjectInfo{{Name: id + ".png"}}, nil)
		mStore.On("Delete", ctx, id+".png").Return(errors.New("io error"))

		svc := NewFileService(mStore)
		_, err := svc.Delete(ctx, id)

		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}
