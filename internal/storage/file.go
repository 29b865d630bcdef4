package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-explorer/internal/models"
	"weather-explorer/pkg/logger"
)

const tempPrefix = ".tmp-"

// FileStore keeps one file per payload in a single directory.
// Layout: <dir>/<name> for published entries, <dir>/.tmp-<uuid> while writing.
type FileStore struct {
	dir   string
	locks nameLocks
	l     *logger.Logger
}

func NewFileStore(dir string, l *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(models.ErrStorage, "create storage directory %s: %v", dir, err)
	}

	return &FileStore{dir: dir, l: l}, nil
}

func (s *FileStore) Backend() string {
	return BackendFile
}

// Put writes raw to a temp file in the same directory, syncs it and renames it over
// the final name, so readers see either the old or the new content, never a mix.
func (s *FileStore) Put(_ context.Context, name string, raw []byte) (models.StoredFile, error) {
	if err := ValidateName(name); err != nil {
		return models.StoredFile{}, err
	}

	unlock := s.locks.lock(name)
	defer unlock()

	tmp := filepath.Join(s.dir, tempPrefix+uuid.NewString())
	if err := writeSynced(tmp, raw); err != nil {
		_ = os.Remove(tmp)
		return models.StoredFile{}, errors.Wrapf(models.ErrStorage, "write %s: %v", name, err)
	}

	final := filepath.Join(s.dir, name)
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return models.StoredFile{}, errors.Wrapf(models.ErrStorage, "publish %s: %v", name, err)
	}

	info, err := os.Stat(final)
	if err != nil {
		return models.StoredFile{}, errors.Wrapf(models.ErrStorage, "stat %s: %v", name, err)
	}

	s.l.Debug("stored weather file", map[string]any{"name": name, "size": info.Size()})

	return toStoredFile(info), nil
}

func (s *FileStore) List(_ context.Context) ([]models.StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(models.ErrStorage, "list %s: %v", s.dir, err)
	}

	// ReadDir sorts by filename.
	files := make([]models.StoredFile, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(models.ErrStorage, "stat %s: %v", e.Name(), err)
		}

		files = append(files, toStoredFile(info))
	}

	return files, nil
}

func (s *FileStore) Get(_ context.Context, name string) ([]byte, error) {
	if ValidateName(name) != nil {
		return nil, notFound(name)
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, errors.Wrapf(models.ErrStorage, "read %s: %v", name, err)
	}

	return raw, nil
}

func writeSynced(path string, raw []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func toStoredFile(info fs.FileInfo) models.StoredFile {
	return models.StoredFile{
		Name:         info.Name(),
		Size:         info.Size(),
		LastModified: info.ModTime().UTC(),
	}
}
