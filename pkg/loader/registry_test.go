package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(t.TempDir())
	reg.Register(NewLocalLoader(""))
	reg.Register(NewGitLoader(""))
	reg.Register(NewGithubLoader(""))
	return reg
}

func TestRegistryGetForLocator(t *testing.T) {
	reg := newTestRegistry(t)

	tests := map[string]struct {
		locator  any
		wantType string
		wantNil  bool
	}{
		"local string":         {locator: "local:/tmp/x", wantType: TypeLocal},
		"git string":           {locator: "git:https://example.com/r.git", wantType: TypeGit},
		"github string":        {locator: "github:owner/repo", wantType: TypeGithub},
		"typed local locator":  {locator: NewLocalLocator("/tmp/x"), wantType: TypeLocal},
		"typed github locator": {locator: NewGithubLocator("o", "r", ""), wantType: TypeGithub},
		"unknown prefix":       {locator: "unknown:foo", wantNil: true},
		"prefix-less string":   {locator: "/tmp/x", wantNil: true},
		"unsupported value":    {locator: 3.14, wantNil: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := reg.GetForLocator(tc.locator)
			if tc.wantNil {
				if got != nil {
					t.Errorf("GetForLocator(%v) = %v, want nil", tc.locator, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("GetForLocator(%v) = nil, want %s loader", tc.locator, tc.wantType)
			}
			if got.LocatorType() != tc.wantType {
				t.Errorf("GetForLocator(%v) = %s loader, want %s", tc.locator, got.LocatorType(), tc.wantType)
			}
		})
	}
}

func TestRegistryGetForLocatorDict(t *testing.T) {
	reg := newTestRegistry(t)

	tests := map[string]struct {
		dict     map[string]any
		wantType string
		wantNil  bool
	}{
		"github dict": {
			dict:     map[string]any{"type": "github", "user_name": "o", "repo_name": "r"},
			wantType: TypeGithub,
		},
		"local dict": {
			dict:     map[string]any{"type": "local", "path": "/tmp/x"},
			wantType: TypeLocal,
		},
		"unknown type": {dict: map[string]any{"type": "svn"}, wantNil: true},
		"missing type": {dict: map[string]any{"path": "/tmp/x"}, wantNil: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := reg.GetForLocatorDict(tc.dict)
			if tc.wantNil {
				if got != nil {
					t.Errorf("GetForLocatorDict(%v) = %v, want nil", tc.dict, got)
				}
				return
			}
			if got == nil || got.LocatorType() != tc.wantType {
				t.Errorf("GetForLocatorDict(%v) = %v, want %s loader", tc.dict, got, tc.wantType)
			}
		})
	}
}

func TestRegistryParseLocator(t *testing.T) {
	reg := newTestRegistry(t)

	tests := map[string]struct {
		locator  any
		wantType string
		wantErr  error
	}{
		"string":        {locator: "github:o/r@main", wantType: TypeGithub},
		"typed":         {locator: NewGitLocator("https://example.com/r.git", ""), wantType: TypeGit},
		"dict":          {locator: map[string]any{"type": "local", "path": "/tmp/x"}, wantType: TypeLocal},
		"unsupported":   {locator: "unknown:foo", wantErr: ErrUnsupportedLocator},
		"unknown dict":  {locator: map[string]any{"type": "svn"}, wantErr: ErrUnsupportedLocator},
		"invalid value": {locator: []int{1}, wantErr: ErrInvalidLocator},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := reg.ParseLocator(tc.locator)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ParseLocator(%v) error = %v, want %v", tc.locator, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocator(%v) error = %v", tc.locator, err)
			}
			if got.Type() != tc.wantType {
				t.Errorf("ParseLocator(%v).Type() = %q, want %q", tc.locator, got.Type(), tc.wantType)
			}
		})
	}
}

func TestRegistryLoadUnsupportedLocator(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Load("unknown:foo", nil, false)
	if !errors.Is(err, ErrUnsupportedLocator) {
		t.Fatalf("Load() error = %v, want ErrUnsupportedLocator", err)
	}
}

func TestRegistryEndToEndLocalDirectory(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "data.txt"), "payload")
	reg := newTestRegistry(t)

	meta, err := reg.Load("local:"+source, nil, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if meta.IsFile {
		t.Errorf("IsFile = true, want false")
	}
	if meta.TargetPath != "" {
		t.Errorf("TargetPath = %q, want empty", meta.TargetPath)
	}
	if got := readFile(t, filepath.Join(meta.Path, "data.txt")); got != "payload" {
		t.Errorf("cached content = %q, want %q", got, "payload")
	}
	if _, err := os.Stat(filepath.Join(meta.Path, MetaFileName)); err != nil {
		t.Errorf("meta.json missing: %v", err)
	}
	if filepath.Dir(meta.Path) != reg.TargetDir() {
		t.Errorf("cache directory %q is not under the registry target dir %q", meta.Path, reg.TargetDir())
	}
}

func TestRegistrySetTargetDirPropagates(t *testing.T) {
	reg := newTestRegistry(t)
	next := t.TempDir()

	reg.SetTargetDir(next)

	if reg.TargetDir() != next {
		t.Errorf("TargetDir() = %q, want %q", reg.TargetDir(), next)
	}
	for _, l := range reg.Loaders() {
		if l.TargetDir() != next {
			t.Errorf("%s loader target dir = %q, want %q", l.LocatorType(), l.TargetDir(), next)
		}
	}
}

func TestRegistryClone(t *testing.T) {
	reg := newTestRegistry(t)

	clone := reg.Clone()

	if clone.TargetDir() != reg.TargetDir() {
		t.Errorf("clone target dir = %q, want %q", clone.TargetDir(), reg.TargetDir())
	}
	if len(clone.Loaders()) != len(reg.Loaders()) {
		t.Fatalf("clone has %d loaders, want %d", len(clone.Loaders()), len(reg.Loaders()))
	}
	// Registering into the clone must not affect the original.
	clone.Register(NewLocalLoader(""))
	if len(clone.Loaders()) == len(reg.Loaders()) {
		t.Errorf("registering into the clone changed the original registry")
	}
}

func TestRegistryReadMeta(t *testing.T) {
	source := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "a")
	reg := newTestRegistry(t)

	meta, err := reg.Load("local:"+source, nil, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := reg.ReadMeta(meta.Path)
	if err != nil {
		t.Fatalf("ReadMeta() error = %v", err)
	}
	if got.Locator.Name() != meta.Locator.Name() {
		t.Errorf("ReadMeta locator name = %q, want %q", got.Locator.Name(), meta.Locator.Name())
	}
	if !got.Timestamp.Equal(meta.Timestamp) {
		t.Errorf("ReadMeta timestamp = %v, want %v", got.Timestamp, meta.Timestamp)
	}

	if _, err := reg.ReadMeta(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, ErrMetadata) {
		t.Errorf("ReadMeta on missing dir error = %v, want ErrMetadata", err)
	}
}

func TestDefaultRegistryHasBuiltinLoaders(t *testing.T) {
	for _, locator := range []string{"local:/tmp/x", "git:https://example.com/r.git", "github:o/r"} {
		if Default().GetForLocator(locator) == nil {
			t.Errorf("default registry has no loader for %q", locator)
		}
	}
}
