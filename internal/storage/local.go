package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// metaSuffix marks the JSON sidecar written next to each data file. Sidecars
// carry the metadata a bare filesystem cannot (original filename, declared
// content type, upload time) and are skipped by List.
const metaSuffix = ".meta.json"

// localStorage implements Storage on a single flat directory.
type localStorage struct {
	dir string
}

// NewLocal creates a local-disk storage rooted at dir. The directory itself
// is created lazily on the first Put, so a fresh deployment lists as empty.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	return &localStorage{dir: dir}, nil
}

// sidecar is the on-disk shape of a metadata sidecar.
type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	UploadedAt  time.Time         `json:"uploaded_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (l *localStorage) Put(ctx context.Context, name string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := validName(name); err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create upload directory: %w", err)
	}

	path := filepath.Join(l.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return ObjectInfo{}, fmt.Errorf("write file content: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return ObjectInfo{}, fmt.Errorf("close file: %w", err)
	}

	now := time.Now().UTC()
	// Sidecar write is best effort: a listing still works without it, it just
	// loses the original filename.
	l.writeSidecar(name, sidecar{
		ContentType: opt.ContentType,
		UploadedAt:  now,
		Metadata:    opt.Metadata,
	})

	return ObjectInfo{
		Name:         name,
		Size:         size,
		ContentType:  opt.ContentType,
		LastModified: now,
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error) {
	if err := validName(name); err != nil {
		return nil, ObjectInfo{}, err
	}

	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ObjectInfo{}, ErrNotExist
		}
		return nil, ObjectInfo{}, fmt.Errorf("open file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat file: %w", err)
	}

	return f, l.objectInfo(name, fi.Size(), fi.ModTime()), nil
}

func (l *localStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		// "No uploads yet" and "directory missing" are indistinguishable on
		// purpose; both list as empty.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload directory: %w", err)
	}

	infos := make([]ObjectInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), metaSuffix) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			// Removed mid-scan; drop it rather than fail the whole listing.
			continue
		}
		infos = append(infos, l.objectInfo(e.Name(), fi.Size(), fi.ModTime()))
	}
	return infos, nil
}

func (l *localStorage) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	path := filepath.Join(l.dir, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotExist
		}
		return fmt.Errorf("delete file: %w", err)
	}
	// The sidecar may legitimately be absent.
	os.Remove(path + metaSuffix)
	return nil
}

// objectInfo assembles an ObjectInfo, enriching it from the sidecar when one
// is present and readable.
func (l *localStorage) objectInfo(name string, size int64, modTime time.Time) ObjectInfo {
	info := ObjectInfo{Name: name, Size: size, LastModified: modTime}
	sc, err := l.readSidecar(name)
	if err != nil {
		return info
	}
	info.ContentType = sc.ContentType
	info.Metadata = sc.Metadata
	if !sc.UploadedAt.IsZero() {
		info.LastModified = sc.UploadedAt
	}
	return info
}

func (l *localStorage) writeSidecar(name string, sc sidecar) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, name+metaSuffix), data, 0o644)
}

func (l *localStorage) readSidecar(name string) (*sidecar, error) {
	data, err := os.ReadFile(filepath.Join(l.dir, name+metaSuffix))
	if err != nil {
		return nil, err
	}
	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// validName rejects names that would escape the flat upload directory.
func validName(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}
