// Package extension lets applications assemble their CLI from
// self-contained subcommand providers. Extensions register themselves into
// the default registry (typically from an init function, with the
// providing package blank-imported by the application binary) and the root
// command attaches them all at startup.
package extension

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// Extension contributes one or more subcommands to the application's root
// command.
type Extension interface {
	// Name identifies the extension; duplicate registrations are
	// rejected.
	Name() string
	// Setup attaches the extension's commands to the root command.
	Setup(root *cobra.Command) error
}

// Registry tracks extensions in registration order.
type Registry struct {
	byName map[string]Extension
	order  []string
}

// NewRegistry returns an empty, independent registry; tests use it so
// they never depend on accumulated global registrations.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Extension)}
}

// Register adds an extension.
// Note: this is NOT thread safe, and should only be called in init()
// or application setup.
func (r *Registry) Register(ext Extension) error {
	if _, ok := r.byName[ext.Name()]; ok {
		return fmt.Errorf("failed to register extension %q: other extension already registered under that name", ext.Name())
	}
	r.byName[ext.Name()] = ext
	r.order = append(r.order, ext.Name())
	return nil
}

// Names returns a sorted list of all registered extension names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the extension registered under name.
func (r *Registry) Get(name string) (Extension, bool) {
	ext, ok := r.byName[name]
	return ext, ok
}

// Attach runs Setup for every registered extension against root, in
// registration order.
func (r *Registry) Attach(root *cobra.Command) error {
	for _, name := range r.order {
		if err := r.byName[name].Setup(root); err != nil {
			return fmt.Errorf("setting up extension %q: %w", name, err)
		}
	}
	return nil
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide extension registry.
func Default() *Registry { return defaultRegistry }

// Register adds an extension to the default registry.
func Register(ext Extension) error { return defaultRegistry.Register(ext) }

// Attach wires every extension in the default registry into root.
func Attach(root *cobra.Command) error { return defaultRegistry.Attach(root) }
