package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MetaFileName is the metadata filename written at the root of every cache
// directory.
const MetaFileName = "meta.json"

// timestampLayout is the project convention for encoding timestamps inside
// meta.json. The writer and reader must agree on this exact format.
const timestampLayout = time.RFC3339Nano

// LoadedMeta describes a completed fetch: what was fetched, where it now
// lives, and when.
type LoadedMeta struct {
	// Locator is the owning locator.
	Locator Locator
	// Path is the absolute path of the cache directory allocated for the
	// resource.
	Path string
	// TargetPath is the sub-path (relative to Path) selected by the
	// caller's target-path resolver, or the fetched file's base name for
	// single-file fetches. Empty when the resolver was not used or chose
	// the root.
	TargetPath string
	// IsFile is true when a single file was fetched, false for a
	// directory tree.
	IsFile bool
	// Timestamp is the capture time of the metadata, used to decide
	// staleness.
	Timestamp time.Time
}

// NewLoadedMeta builds metadata for a fetch completed now.
func NewLoadedMeta(locator Locator, path string) *LoadedMeta {
	return &LoadedMeta{Locator: locator, Path: path, Timestamp: time.Now()}
}

type metaFile struct {
	Timestamp  string         `json:"timestamp"`
	Locator    map[string]any `json:"locator"`
	TargetPath string         `json:"target_path"`
	IsFile     bool           `json:"is_file"`
}

func (m *LoadedMeta) metaPath() string {
	return filepath.Join(m.Path, MetaFileName)
}

// writeMetaFile persists m as meta.json inside its cache directory,
// overwriting any previous metadata.
func writeMetaFile(m *LoadedMeta) error {
	raw := metaFile{
		Timestamp:  m.Timestamp.Format(timestampLayout),
		Locator:    m.Locator.Dict(),
		TargetPath: m.TargetPath,
		IsFile:     m.IsFile,
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %s: %w", m.Locator, err)
	}
	return os.WriteFile(m.metaPath(), data, 0o644)
}

// readMetaFile recovers metadata from the meta.json inside dir. fromDict
// reconstructs the locator from its serialized form; it is supplied by the
// loader (or registry) that owns the cache directory.
func readMetaFile(dir string, fromDict func(map[string]any) (Locator, error)) (*LoadedMeta, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFileName))
	if err != nil {
		return nil, err
	}
	var raw metaFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	ts, err := time.Parse(timestampLayout, raw.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", raw.Timestamp, err)
	}
	if raw.Locator == nil {
		return nil, fmt.Errorf("metadata in %s has no locator", dir)
	}
	locator, err := fromDict(raw.Locator)
	if err != nil {
		return nil, err
	}
	return &LoadedMeta{
		Locator:    locator,
		Path:       dir,
		TargetPath: raw.TargetPath,
		IsFile:     raw.IsFile,
		Timestamp:  ts,
	}, nil
}
