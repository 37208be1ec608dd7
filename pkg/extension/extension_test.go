package extension

import (
	"testing"

	"github.com/spf13/cobra"
)

type stubExtension struct {
	name string
	cmds []string
}

func (s *stubExtension) Name() string { return s.name }

func (s *stubExtension) Setup(root *cobra.Command) error {
	for _, use := range s.cmds {
		root.AddCommand(&cobra.Command{Use: use, RunE: func(*cobra.Command, []string) error { return nil }})
	}
	return nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&stubExtension{name: "alpha"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(&stubExtension{name: "alpha"}); err == nil {
		t.Fatal("Register() accepted a duplicate name")
	}
	if _, ok := r.Get("alpha"); !ok {
		t.Errorf("Get(%q) not found after registration", "alpha")
	}
}

func TestRegistryNames(t *testing.T) {
	tests := map[string]struct {
		register []string
		want     []string
	}{
		"empty registry": {},
		"single":         {register: []string{"alpha"}, want: []string{"alpha"}},
		"sorted output":  {register: []string{"zeta", "alpha", "mid"}, want: []string{"alpha", "mid", "zeta"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry()
			for _, n := range tc.register {
				if err := r.Register(&stubExtension{name: n}); err != nil {
					t.Fatal(err)
				}
			}

			got := r.Names()
			if len(got) != len(tc.want) {
				t.Fatalf("Names() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("Names()[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestRegistryAttach(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubExtension{name: "alpha", cmds: []string{"hello"}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&stubExtension{name: "beta", cmds: []string{"bye", "wave"}}); err != nil {
		t.Fatal(err)
	}
	root := &cobra.Command{Use: "app"}

	if err := r.Attach(root); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	for _, use := range []string{"hello", "bye", "wave"} {
		found := false
		for _, c := range root.Commands() {
			if c.Use == use {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q was not attached to the root", use)
		}
	}
}
