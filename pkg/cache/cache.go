// Package cache provides root-based path management for the loader cache
// directory. It owns no data format; loaders lay out their own cache
// sub-directories beneath the root.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

const dirPerm = 0o755

// DefaultRoot is the cache root directory name under the user's home
// directory.
const DefaultRoot = ".clirack"

// Cache addresses paths under a single root directory.
type Cache struct {
	root string
}

// New returns a Cache rooted at root. The root is not created until a
// directory beneath it is.
func New(root string) *Cache {
	return &Cache{root: root}
}

// Default returns a Cache rooted at ~/.clirack/cache.
func Default() (*Cache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("determining home directory: %w", err)
	}
	return &Cache{root: filepath.Join(home, DefaultRoot, "cache")}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// Path returns the absolute filesystem path for the given segments joined
// under the root. Does not create or verify the path.
func (c *Cache) Path(segments ...string) string {
	return filepath.Join(append([]string{c.root}, segments...)...)
}

// Exists reports whether the path at the given segments exists.
func (c *Cache) Exists(segments ...string) (bool, error) {
	_, err := os.Stat(c.Path(segments...))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates the directory at segments, including parents.
func (c *Cache) EnsureDir(segments ...string) error {
	return os.MkdirAll(c.Path(segments...), dirPerm)
}

// Remove deletes the entire tree at segments.
func (c *Cache) Remove(segments ...string) error {
	return os.RemoveAll(c.Path(segments...))
}

// Entries returns the names of the top-level directories under the root,
// i.e. the cache directories of all fetched resources. A missing root
// yields an empty list.
func (c *Cache) Entries() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
