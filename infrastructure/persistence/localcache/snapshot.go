// Package localcache persists the session state as a single on-device
// snapshot. The whole state is rewritten after every mutation; at this
// scale that is the simplest consistent approach.
package localcache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"nutrilens/domain/meal"
	"nutrilens/domain/profile"
	"nutrilens/pkg/errors"
)

// Snapshot is the serialized session state: the profile and the ordered
// meal list, most recent first.
type Snapshot struct {
	Profile profile.Profile `json:"profile"`
	Meals   []meal.Entry    `json:"meals"`
}

// Store reads and writes the snapshot file.
type Store struct {
	path string
}

// NewStore builds a store over the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the snapshot under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.NewPersistenceError("no user cache directory").WithCause(err)
	}
	return filepath.Join(dir, "nutrilens", "state.json"), nil
}

// Load reads the last-known snapshot. Returns nil without error when no
// snapshot has been written yet.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewPersistenceError("cannot read snapshot").WithCause(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewPersistenceError("snapshot is corrupt").WithCause(err)
	}
	return &snap, nil
}

// Save writes the snapshot atomically (temp file, then rename) so a
// crash mid-write never leaves a truncated state file.
func (s *Store) Save(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.NewPersistenceError("cannot serialize snapshot").WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.NewPersistenceError("cannot create snapshot directory").WithCause(err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*")
	if err != nil {
		return errors.NewPersistenceError("cannot create snapshot temp file").WithCause(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewPersistenceError("cannot write snapshot").WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewPersistenceError("cannot flush snapshot").WithCause(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.NewPersistenceError("cannot replace snapshot").WithCause(err)
	}
	return nil
}

// Clear removes the snapshot file.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.NewPersistenceError("cannot remove snapshot").WithCause(err)
	}
	return nil
}
