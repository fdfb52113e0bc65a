package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/playtrack/completionist/pkg/constants"
	apperrors "github.com/playtrack/completionist/pkg/errors"
)

// SnapshotStore reads and writes per-user snapshot files. Each user gets
// one <steamid>.json file under the data directory, holding the ordered
// record sequence.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a store rooted at dir. The directory is created
// lazily on the first save.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Dir returns the directory the store persists into.
func (s *SnapshotStore) Dir() string {
	return s.dir
}

// Path returns the snapshot file path for a SteamID.
func (s *SnapshotStore) Path(steamID string) string {
	return filepath.Join(s.dir, steamID+".json")
}

// Load reads the snapshot for a SteamID. A missing file yields an empty
// snapshot: that is the normal first-run state. A file that exists but
// cannot be parsed is a fatal condition; returning an empty snapshot
// there would silently discard prior data on the next save.
func (s *SnapshotStore) Load(steamID string) (Snapshot, error) {
	path := s.Path(steamID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Snapshot{}, nil
	}
	if err != nil {
		return nil, apperrors.WrapIO("read", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperrors.WrapParse("json", path, err)
	}
	return snap, nil
}

// Save writes the snapshot for a SteamID, creating the data directory if
// needed. The snapshot is sorted before writing so the on-disk order always
// satisfies the rarity invariant.
func (s *SnapshotStore) Save(steamID string, snap Snapshot) error {
	snap.Sort()

	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return apperrors.WrapParse("json", s.Path(steamID), err)
	}

	if err := os.MkdirAll(s.dir, constants.DirPermissions); err != nil {
		return apperrors.WrapIO("create", s.dir, err)
	}
	path := s.Path(steamID)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return apperrors.WrapIO("write", path, err)
	}
	return nil
}

// List returns the SteamIDs of all persisted snapshots. Snapshot files are
// the all-digit .json files in the data directory, which keeps the skip
// list and any stray files out of cross-reference scans.
func (s *SnapshotStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapIO("read", s.dir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		id, ok := strings.CutSuffix(name, ".json")
		if !ok || !isAllDigits(id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
