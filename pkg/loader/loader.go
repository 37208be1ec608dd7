// Package loader fetches named external resources (local paths, git
// repositories, GitHub archives) into a local cache keyed by a stable
// locator name, with on-disk metadata deciding when a refetch is needed.
package loader

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/clirack/clirack/pkg/cache"
)

// DefaultTargetDir is the cache root used when no target directory is
// configured.
const DefaultTargetDir = "tmp/external"

// TargetPathResolver selects and validates the meaningful sub-path within
// a fetched directory tree. It receives the in-progress metadata with Path
// already set to the cache directory and returns the relative sub-path to
// record as TargetPath. A non-nil error rejects the fetched layout and is
// surfaced as an invalid-package-structure error. The resolver runs only
// for directory fetches, after the copy or extraction completes and before
// the metadata is persisted.
type TargetPathResolver func(meta *LoadedMeta) (string, error)

// Loader implements fetch logic for exactly one locator protocol.
//
// Methods taking a locator accept either a locator string (with the
// loader's prefix) or an already-typed Locator; any other value is a
// contract violation reported as an invalid-locator error.
type Loader interface {
	// LocatorPrefix is the prefix of the loader's locator strings, e.g.
	// "github" for "github:owner/repo".
	LocatorPrefix() string
	// LocatorType is the serialized type tag of the loader's locators.
	LocatorType() string
	// CanHandle reports whether the locator string has the loader's
	// prefix, or the structured locator is of the loader's locator type.
	CanHandle(locator any) bool
	// ResolveLocator parses a locator string into the loader's concrete
	// Locator type, or passes through an already-typed Locator.
	ResolveLocator(locator any) (Locator, error)
	// LocatorFromDict reconstructs a locator from its serialized form.
	LocatorFromDict(d map[string]any) (Locator, error)
	// Load fetches the resource into the cache, or returns the existing
	// cached metadata when it is still valid.
	Load(locator any, resolver TargetPathResolver, forceReload bool) (*LoadedMeta, error)
	// WriteMeta persists metadata as meta.json in its cache directory.
	WriteMeta(meta *LoadedMeta) error
	// ReadMeta recovers metadata from the cache directory at path.
	ReadMeta(path string) (*LoadedMeta, error)
	// TargetDir returns the cache root directory.
	TargetDir() string
	// SetTargetDir changes the cache root. Already-cached data is not
	// moved.
	SetTargetDir(dir string)
}

// base carries the state and cache state machine shared by all loaders.
type base struct {
	prefix         string
	typ            string
	reloadInterval time.Duration // zero means cached data never expires by age
	cache          *cache.Cache
	logger         *log.Logger
	fromDict       func(map[string]any) (Locator, error)
}

func newBase(prefix, typ, targetDir string, fromDict func(map[string]any) (Locator, error)) base {
	if targetDir == "" {
		targetDir = DefaultTargetDir
	}
	return base{
		prefix:   prefix,
		typ:      typ,
		cache:    cache.New(targetDir),
		logger:   log.NewWithOptions(os.Stderr, log.Options{Prefix: "loader." + typ}),
		fromDict: fromDict,
	}
}

func (b *base) LocatorPrefix() string { return b.prefix }
func (b *base) LocatorType() string   { return b.typ }
func (b *base) TargetDir() string     { return b.cache.Root() }

func (b *base) SetTargetDir(dir string) {
	b.cache = cache.New(dir)
}

// SetLogger replaces the loader's progress logger.
func (b *base) SetLogger(logger *log.Logger) {
	b.logger = logger
}

func (b *base) CanHandle(locator any) bool {
	switch l := locator.(type) {
	case string:
		return strings.HasPrefix(l, b.prefix+PrefixDelimiter)
	case Locator:
		return l.Type() == b.typ
	default:
		return false
	}
}

func (b *base) LocatorFromDict(d map[string]any) (Locator, error) {
	if typ := dictString(d, "type"); typ != b.typ {
		return nil, newError(ErrInvalidLocator, nil, "locator dict has type %q, loader handles %q", typ, b.typ)
	}
	return b.fromDict(d)
}

// resolveLocator implements the shared string/typed dispatch; parse handles
// the loader's own string grammar.
func (b *base) resolveLocator(locator any, parse func(string) (Locator, error)) (Locator, error) {
	switch l := locator.(type) {
	case string:
		loc, err := parse(l)
		if err != nil {
			if lerr, ok := err.(*Error); ok {
				return nil, lerr
			}
			return nil, wrapError(ErrInvalidLocator, nil, err, "parsing locator %q", l)
		}
		return loc, nil
	case Locator:
		if l.Type() != b.typ {
			return nil, newError(ErrInvalidLocator, l, "locator %s has type %q, loader handles %q", l, l.Type(), b.typ)
		}
		return l, nil
	default:
		return nil, newError(ErrInvalidLocator, nil, "locator must be a string or a Locator, got %T", locator)
	}
}

func (b *base) WriteMeta(meta *LoadedMeta) error {
	return writeMetaFile(meta)
}

func (b *base) ReadMeta(path string) (*LoadedMeta, error) {
	meta, err := readMetaFile(path, b.LocatorFromDict)
	if err != nil {
		return nil, wrapError(ErrMetadata, nil, err, "package %s metadata is missing or corrupted", path)
	}
	return meta, nil
}

// verifyExisting reads the metadata of an existing cache directory. A
// missing directory yields nil metadata; a corrupted one is deleted so the
// caller proceeds as if it never existed.
func (b *base) verifyExisting(dir string) *LoadedMeta {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	meta, err := b.ReadMeta(dir)
	if err != nil {
		b.logger.Debug("package exists, but it is corrupted, removing", "path", dir)
		os.RemoveAll(dir)
		return nil
	}
	return meta
}

// reloadRequired reports whether the cached metadata is absent or older
// than the loader's reload interval.
func (b *base) reloadRequired(meta *LoadedMeta) bool {
	if meta == nil {
		return true
	}
	if b.reloadInterval > 0 {
		return time.Since(meta.Timestamp) > b.reloadInterval
	}
	return false
}

// checkShouldLoad applies the staleness/force decision for the cache
// directory at dir. When a reload is required the existing directory is
// deleted first, so the fetch step always starts from a clean slate.
func (b *base) checkShouldLoad(dir string, forceReload bool) (*LoadedMeta, bool) {
	meta := b.verifyExisting(dir)
	if meta == nil {
		return nil, true
	}
	b.logger.Info("existing package found", "locator", meta.Locator.String())
	if forceReload {
		b.logger.Debug("package exists, reloading is forced")
		os.RemoveAll(dir)
		return meta, true
	}
	if b.reloadRequired(meta) {
		b.logger.Info("package is outdated, reloading", "locator", meta.Locator.String())
		os.RemoveAll(dir)
		return meta, true
	}
	return meta, false
}

// finishMeta fills TargetPath through the resolver (directory fetches
// only), persists the metadata, and returns it.
func (b *base) finishMeta(meta *LoadedMeta, resolver TargetPathResolver) (*LoadedMeta, error) {
	if !meta.IsFile && resolver != nil {
		target, err := resolver(meta)
		if err != nil {
			return nil, structureError(meta, err)
		}
		meta.TargetPath = target
	}
	b.logger.Debug("writing metadata", "locator", meta.Locator.String())
	if err := b.WriteMeta(meta); err != nil {
		return nil, wrapError(ErrMetadata, meta.Locator, err, "writing metadata for %s", meta.Locator)
	}
	b.logger.Info("loaded", "locator", meta.Locator.String())
	return meta, nil
}
