package attrs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// ErrSnapshotNotFound is returned by Load if there is no snapshot file.
var ErrSnapshotNotFound = errors.New("saved attributes file not found")

// Record holds the attributes tracked for a single path.
// Timestamps are seconds since the epoch. Mode is the raw st_mode, file type bits included.
// Mode, UID and GID are nil if the profile that produced the record does not track them.
type Record struct {
	Mode  *uint32 `json:"mode,omitempty"`
	Ctime float64 `json:"ctime"`
	Mtime float64 `json:"mtime"`
	Atime float64 `json:"atime"`
	UID   *uint32 `json:"uid,omitempty"`
	GID   *uint32 `json:"gid,omitempty"`
}

// Snapshot maps the recorded paths to their attributes.
type Snapshot map[string]Record

// Paths returns the recorded paths in lexicographic order.
func (s Snapshot) Paths() []string {
	paths := make([]string, 0, len(s))
	for path := range s {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Save writes the snapshot to path as indented JSON, replacing whatever was there before.
func Save(path string, snap Snapshot) error {
	encoded := make(map[string]Record, len(snap))
	for p, rec := range snap {
		encoded[encodeKey(p)] = rec
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(encoded); err != nil {
		return fmt.Errorf("cannot encode snapshot for %s: %w", path, err)
	}

	if err := os.WriteFile(path, nulToSurrogateEscapes(buf.Bytes()), 0o644); err != nil {
		return fmt.Errorf("cannot write snapshot to %s: %w", path, err)
	}
	return nil
}

// Load reads the snapshot stored at path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot read %s: %w", path, ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, err
	}

	decoded := map[string]Record{}
	if err := json.Unmarshal(surrogateToNulEscapes(data), &decoded); err != nil {
		return nil, fmt.Errorf("cannot parse snapshot %s: %w", path, err)
	}

	snap := make(Snapshot, len(decoded))
	for key, rec := range decoded {
		snap[decodeKey(key)] = rec
	}
	return snap, nil
}
