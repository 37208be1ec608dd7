package loader

import (
	"os"
	"path/filepath"

	"github.com/clirack/clirack/pkg/fsutil"
)

// LocalLoader copies files or directory trees from the local filesystem
// into the cache. Cached copies never expire by age; a refetch happens
// only on force reload or metadata corruption.
type LocalLoader struct {
	base
}

var _ Loader = &LocalLoader{}

// NewLocalLoader returns a local filesystem loader caching under
// targetDir (DefaultTargetDir when empty).
func NewLocalLoader(targetDir string) *LocalLoader {
	l := &LocalLoader{}
	l.base = newBase(TypeLocal, TypeLocal, targetDir, func(d map[string]any) (Locator, error) {
		return localLocatorFromDict(d)
	})
	return l
}

func (l *LocalLoader) ResolveLocator(locator any) (Locator, error) {
	return l.resolveLocator(locator, func(s string) (Locator, error) {
		return parseLocalLocator(s)
	})
}

func (l *LocalLoader) Load(locator any, resolver TargetPathResolver, forceReload bool) (*LoadedMeta, error) {
	loc, err := l.ResolveLocator(locator)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loading", "locator", loc.String())
	local := loc.(*LocalLocator)

	source := local.Path
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(ErrSourceNotFound, loc, "invalid locator: path %q doesn't exist", source)
		}
		return nil, wrapError(ErrSourceNotFound, loc, err, "checking path %q", source)
	}
	target := l.cache.Path(local.Name())

	meta, reload := l.checkShouldLoad(target, forceReload)
	if !reload {
		l.logger.Info("cached version is up to date", "locator", loc.String())
		return meta, nil
	}

	if err := l.cache.EnsureDir(local.Name()); err != nil {
		return nil, wrapError(ErrTransport, loc, err, "creating cache directory %s", target)
	}
	l.logger.Debug("copying", "source", source, "target", target)

	meta = NewLoadedMeta(loc, target)
	switch {
	case info.Mode().IsRegular():
		if err := fsutil.CopyFile(source, target); err != nil {
			return nil, wrapError(ErrTransport, loc, err, "copying %q", source)
		}
		meta.IsFile = true
		meta.TargetPath = filepath.Base(source)
	case info.IsDir():
		if err := fsutil.CopyTree(source, target); err != nil {
			return nil, wrapError(ErrTransport, loc, err, "copying %q", source)
		}
		meta.IsFile = false
	default:
		return nil, newError(ErrSourceNotFound, loc,
			"locator %s points at an invalid location, it must be either a file or a directory", loc)
	}
	return l.finishMeta(meta, resolver)
}

func init() {
	Register(NewLocalLoader(DefaultTargetDir))
}
