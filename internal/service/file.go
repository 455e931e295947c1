package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"famdrop/internal/filetype"
	"famdrop/internal/model"
	"famdrop/internal/storage"
)

var (
	ErrNoFile         = errors.New("no file received")
	ErrFileTooLarge   = errors.New("file too large")
	ErrTypeNotAllowed = errors.New("file type not allowed")
	ErrNotFound       = errors.New("file not found")
)

// Metadata keys recorded at upload time so a listing can recover what the
// filesystem alone cannot.
const (
	metaOriginalFilename = "original-filename"
	metaUploadedAt       = "uploaded-at"
)

// FileService defines the use cases for handling uploads.
type FileService interface {
	// Upload validates the file against the size cap and MIME allow-list,
	// stores it under a fresh UUID-derived name, and returns its descriptor.
	Upload(ctx context.Context, r io.Reader, originalName string, contentType string, size int64) (*model.File, error)

	// List returns descriptors for every stored file, newest first. A missing
	// or never-written backend lists as empty, not as an error.
	List(ctx context.Context) ([]model.File, error)

	// Open returns a reader over a stored file's bytes alongside its
	// descriptor, for serving the file's URL.
	Open(ctx context.Context, fileName string) (io.ReadCloser, *model.File, error)

	// Delete removes the first stored file whose name starts with id.
	Delete(ctx context.Context, id string) (*model.File, error)
}

// fileService is a concrete implementation of FileService.
type fileService struct {
	store storage.Storage
}

// NewFileService constructs a new FileService over the given backend.
func NewFileService(store storage.Storage) FileService {
	return &fileService{store: store}
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, originalName string, contentType string, size int64) (*model.File, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	if size > filetype.MaxUploadBytes {
		return nil, ErrFileTooLarge
	}
	if !filetype.Allowed(contentType) {
		return nil, ErrTypeNotAllowed
	}

	// Stored name is a fresh UUID plus the original extension; the UUID never
	// contains a dot, so the id can be recovered from the name later.
	id := uuid.New().String()
	name := id + strings.ToLower(filepath.Ext(originalName))
	now := time.Now().UTC()

	info, err := s.store.Put(ctx, name, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			metaOriginalFilename: originalName,
			metaUploadedAt:       now.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	return &model.File{
		ID:           id,
		FileName:     info.Name,
		OriginalName: originalName,
		Size:         info.Size,
		ContentType:  contentType,
		UploadedAt:   now,
		URL:          fileURL(info.Name),
	}, nil
}

func (s *fileService) List(ctx context.Context) ([]model.File, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}

	files := make([]model.File, 0, len(infos))
	for _, info := range infos {
		files = append(files, fileFromObject(info))
	}
	// Newest first. Ties are unordered.
	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

func (s *fileService) Open(ctx context.Context, fileName string) (io.ReadCloser, *model.File, error) {
	rc, info, err := s.store.Get(ctx, fileName)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open storage object: %w", err)
	}

	f := fileFromObject(info)
	// For serving bytes the recorded content type wins over the one inferred
	// from the extension.
	if info.ContentType != "" {
		f.ContentType = info.ContentType
	}
	return rc, &f, nil
}

func (s *fileService) Delete(ctx context.Context, id string) (*model.File, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	// An unreadable backend reads as "nothing to delete" here; the id cannot
	// be located either way.
	infos, err := s.store.List(ctx)
	if err != nil {
		return nil, ErrNotFound
	}

	for _, info := range infos {
		if !strings.HasPrefix(info.Name, id) {
			continue
		}
		if err := s.store.Delete(ctx, info.Name); err != nil {
			if errors.Is(err, storage.ErrNotExist) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("delete storage object: %w", err)
		}
		f := fileFromObject(info)
		return &f, nil
	}
	return nil, ErrNotFound
}

// fileFromObject reconstructs a descriptor from what the backend knows. The
// id is the name up to the final dot and the content type is re-inferred from
// the extension; the original filename and exact upload time come from the
// recorded metadata when present.
func fileFromObject(info storage.ObjectInfo) model.File {
	id, ext := splitName(info.Name)
	f := model.File{
		ID:          id,
		FileName:    info.Name,
		Size:        info.Size,
		ContentType: filetype.ByExtension(ext),
		UploadedAt:  info.LastModified,
		URL:         fileURL(info.Name),
	}

	f.OriginalName = metadataValue(info.Metadata, metaOriginalFilename)
	if ts := metadataValue(info.Metadata, metaUploadedAt); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			f.UploadedAt = t
		}
	}
	return f
}

func fileURL(name string) string {
	return "/uploads/" + name
}

func splitName(name string) (id, ext string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// metadataValue looks a key up case-insensitively; S3 backends canonicalize
// user metadata keys.
func metadataValue(md map[string]string, key string) string {
	for k, v := range md {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
