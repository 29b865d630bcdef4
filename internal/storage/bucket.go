package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/thanos-io/objstore"

	"weather-explorer/internal/models"
	"weather-explorer/pkg/logger"
)

// BucketStore keeps payloads as objects in an object-storage bucket, one object per
// name at the bucket root. Uploads replace objects whole.
type BucketStore struct {
	bkt     objstore.Bucket
	backend string
	locks   nameLocks
	l       *logger.Logger
}

func NewBucketStore(bkt objstore.Bucket, backend string, l *logger.Logger) *BucketStore {
	return &BucketStore{bkt: bkt, backend: backend, l: l}
}

// NewMemoryStore is a BucketStore over an in-process bucket. Contents are lost on exit.
func NewMemoryStore(l *logger.Logger) *BucketStore {
	return NewBucketStore(objstore.NewInMemBucket(), BackendMemory, l)
}

func (s *BucketStore) Backend() string {
	return s.backend
}

func (s *BucketStore) Put(ctx context.Context, name string, raw []byte) (models.StoredFile, error) {
	if err := ValidateName(name); err != nil {
		return models.StoredFile{}, err
	}

	unlock := s.locks.lock(name)
	defer unlock()

	if err := s.bkt.Upload(ctx, name, bytes.NewReader(raw)); err != nil {
		return models.StoredFile{}, errors.Wrapf(models.ErrStorage, "upload %s: %v", name, err)
	}

	file, err := s.stat(ctx, name)
	if err != nil {
		return models.StoredFile{}, err
	}

	s.l.Debug("stored weather object", map[string]any{"name": name, "size": file.Size, "bucket": s.bkt.Name()})

	return file, nil
}

func (s *BucketStore) List(ctx context.Context) ([]models.StoredFile, error) {
	var names []string
	err := s.bkt.Iter(ctx, "", func(name string) error {
		// Directories come back with a trailing separator.
		if strings.HasSuffix(name, objstore.DirDelim) || strings.HasPrefix(name, ".") {
			return nil
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(models.ErrStorage, "iterate bucket %s: %v", s.bkt.Name(), err)
	}

	sort.Strings(names)

	files := make([]models.StoredFile, 0, len(names))
	for _, name := range names {
		file, err := s.stat(ctx, name)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func (s *BucketStore) Get(ctx context.Context, name string) ([]byte, error) {
	if ValidateName(name) != nil {
		return nil, notFound(name)
	}

	rc, err := s.bkt.Get(ctx, name)
	if err != nil {
		if s.bkt.IsObjNotFoundErr(err) {
			return nil, notFound(name)
		}
		return nil, errors.Wrapf(models.ErrStorage, "get %s: %v", name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(models.ErrStorage, "read %s: %v", name, err)
	}

	return raw, nil
}

func (s *BucketStore) stat(ctx context.Context, name string) (models.StoredFile, error) {
	attrs, err := s.bkt.Attributes(ctx, name)
	if err != nil {
		if s.bkt.IsObjNotFoundErr(err) {
			return models.StoredFile{}, notFound(name)
		}
		return models.StoredFile{}, errors.Wrapf(models.ErrStorage, "attributes %s: %v", name, err)
	}

	return models.StoredFile{
		Name:         name,
		Size:         attrs.Size,
		LastModified: attrs.LastModified.UTC(),
	}, nil
}
