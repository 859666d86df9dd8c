// Package file persists the hydration snapshot as a JSON document on a
// filesystem abstraction, so tests can run against an in-memory tree.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

const fileMode = 0o600

// StateRepository writes <dir>/<key>.json. Writes go to a temporary file that
// is renamed over the target, so a crash never leaves a torn snapshot.
type StateRepository struct {
	fs   afero.Fs
	dir  string
	path string
}

var _ ports.StateRepository = (*StateRepository)(nil)

func NewStateRepository(fsys afero.Fs, dir, key string) *StateRepository {
	return &StateRepository{
		fs:   fsys,
		dir:  dir,
		path: filepath.Join(dir, key+".json"),
	}
}

func (r *StateRepository) Load(_ context.Context) (*domain.State, error) {
	raw, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	var st domain.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return &st, nil
}

func (r *StateRepository) Save(ctx context.Context, state *domain.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.fs.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", r.dir, err)
	}

	tmp, err := afero.TempFile(r.fs, r.dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := r.fs.Chmod(tmpName, fileMode); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := r.fs.Rename(tmpName, r.path); err != nil {
		_ = r.fs.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", r.path, err)
	}
	return nil
}

// Ping checks that the storage directory is reachable.
func (r *StateRepository) Ping(_ context.Context) error {
	if err := r.fs.MkdirAll(r.dir, 0o700); err != nil {
		return fmt.Errorf("storage dir %s: %w", r.dir, err)
	}
	return nil
}
