package loader

// Registry dispatches load calls to the first registered loader able to
// handle a locator. Registration order is match-priority order.
type Registry struct {
	loaders   []Loader
	targetDir string
}

// NewRegistry returns an empty registry whose loaders cache under
// targetDir (DefaultTargetDir when empty).
func NewRegistry(targetDir string) *Registry {
	if targetDir == "" {
		targetDir = DefaultTargetDir
	}
	return &Registry{targetDir: targetDir}
}

// Register appends a loader and points it at the registry's cache root.
// Loaders with more specific prefixes should be registered before
// catch-alls. Not thread safe; call during setup only.
func (r *Registry) Register(l Loader) {
	l.SetTargetDir(r.targetDir)
	r.loaders = append(r.loaders, l)
}

// Loaders returns the registered loaders in registration order.
func (r *Registry) Loaders() []Loader {
	out := make([]Loader, len(r.loaders))
	copy(out, r.loaders)
	return out
}

// TargetDir returns the registry's cache root.
func (r *Registry) TargetDir() string { return r.targetDir }

// SetTargetDir changes the cache root and propagates it to every
// registered loader. Already-cached data is not moved.
func (r *Registry) SetTargetDir(dir string) {
	r.targetDir = dir
	for _, l := range r.loaders {
		l.SetTargetDir(dir)
	}
}

// GetForLocator returns the first loader whose CanHandle accepts the
// locator string or typed locator, or nil when none does.
func (r *Registry) GetForLocator(locator any) Loader {
	for _, l := range r.loaders {
		if l.CanHandle(locator) {
			return l
		}
	}
	return nil
}

// GetForLocatorDict looks a loader up by the serialized "type" tag. Used
// when deserializing a persisted locator without knowing its origin
// string.
func (r *Registry) GetForLocatorDict(d map[string]any) Loader {
	typ := dictString(d, "type")
	if typ == "" {
		return nil
	}
	for _, l := range r.loaders {
		if l.LocatorType() == typ {
			return l
		}
	}
	return nil
}

// ParseLocator resolves a locator given as a string, a typed Locator, or a
// serialized dict into a typed Locator.
func (r *Registry) ParseLocator(locator any) (Locator, error) {
	switch l := locator.(type) {
	case map[string]any:
		ld := r.GetForLocatorDict(l)
		if ld == nil {
			return nil, newError(ErrUnsupportedLocator, nil, "locator type %q is not supported", dictString(l, "type"))
		}
		return ld.LocatorFromDict(l)
	case string, Locator:
		ld := r.GetForLocator(l)
		if ld == nil {
			return nil, newError(ErrUnsupportedLocator, nil, "locator %v is not supported", l)
		}
		return ld.ResolveLocator(l)
	default:
		return nil, newError(ErrInvalidLocator, nil,
			"locator must be a string, a dict or a Locator, got %T", locator)
	}
}

// ReadMeta recovers metadata from the cache directory at path, dispatching
// locator reconstruction by the serialized type tag.
func (r *Registry) ReadMeta(path string) (*LoadedMeta, error) {
	meta, err := readMetaFile(path, func(d map[string]any) (Locator, error) {
		l := r.GetForLocatorDict(d)
		if l == nil {
			return nil, newError(ErrUnsupportedLocator, nil, "unknown locator declared in package %s", path)
		}
		return l.LocatorFromDict(d)
	})
	if err != nil {
		return nil, wrapError(ErrMetadata, nil, err, "package %s metadata is missing or corrupted", path)
	}
	return meta, nil
}

// Load resolves the loader for the locator and delegates to it.
func (r *Registry) Load(locator any, resolver TargetPathResolver, forceReload bool) (*LoadedMeta, error) {
	l := r.GetForLocator(locator)
	if l == nil {
		return nil, newError(ErrUnsupportedLocator, nil, "locator %v is not supported", locator)
	}
	return l.Load(locator, resolver, forceReload)
}

// Clone returns an independent registry with the same loader list and
// target dir. Loader instances are shared by reference, not deep-copied.
func (r *Registry) Clone() *Registry {
	c := NewRegistry(r.targetDir)
	c.loaders = make([]Loader, len(r.loaders))
	copy(c.loaders, r.loaders)
	return c
}

// defaultRegistry is the process-wide registry the built-in loaders
// self-register into at package load time. Applications needing isolation
// (tests in particular) should build their own with NewRegistry.
var defaultRegistry = NewRegistry(DefaultTargetDir)

// Default returns the process-wide default registry.
func Default() *Registry { return defaultRegistry }

// Register registers a loader into the default registry. Not thread safe;
// meant to be called from init functions or application setup.
func Register(l Loader) {
	defaultRegistry.Register(l)
}

// Load loads a locator through the default registry.
func Load(locator any, resolver TargetPathResolver, forceReload bool) (*LoadedMeta, error) {
	return defaultRegistry.Load(locator, resolver, forceReload)
}
