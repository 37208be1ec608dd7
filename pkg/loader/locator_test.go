package loader

import (
	"regexp"
	"testing"
)

func TestHashSuffix(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{8}$`)

	tests := map[string]struct {
		input string
	}{
		"path":          {input: "/home/user/project"},
		"url":           {input: "https://github.com/owner/repo.git@main"},
		"empty string":  {input: ""},
		"unicode input": {input: "päckage/ünit"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			first := HashSuffix(tc.input)
			second := HashSuffix(tc.input)

			if !re.MatchString(first) {
				t.Errorf("HashSuffix(%q) = %q, want 8 lowercase hex chars", tc.input, first)
			}
			if first != second {
				t.Errorf("HashSuffix(%q) is not deterministic: %q vs %q", tc.input, first, second)
			}
		})
	}
}

func TestLocatorNames(t *testing.T) {
	tests := map[string]struct {
		locator Locator
		want    *regexp.Regexp
	}{
		"local includes basename": {
			locator: NewLocalLocator("/data/packages"),
			want:    regexp.MustCompile(`^packages-[0-9a-f]{8}$`),
		},
		"git is hash only": {
			locator: NewGitLocator("https://example.com/repo.git", "v1"),
			want:    regexp.MustCompile(`^[0-9a-f]{8}$`),
		},
		"github includes owner and repo": {
			locator: NewGithubLocator("octo", "widgets", "main"),
			want:    regexp.MustCompile(`^octo-widgets-[0-9a-f]{8}$`),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := tc.locator.Name()
			if !tc.want.MatchString(got) {
				t.Errorf("Name() = %q, want match for %s", got, tc.want)
			}
			if got != tc.locator.Name() {
				t.Errorf("Name() is not stable across calls")
			}
		})
	}
}

func TestSameTargetSameName(t *testing.T) {
	a := NewGithubLocator("octo", "widgets", "main")
	b, err := parseGithubLocator("github:octo/widgets@main")
	if err != nil {
		t.Fatalf("parseGithubLocator() error = %v", err)
	}
	if a.Name() != b.Name() {
		t.Errorf("structurally built and parsed locators disagree on Name: %q vs %q", a.Name(), b.Name())
	}
}

func TestParseGithubLocator(t *testing.T) {
	tests := map[string]struct {
		input    string
		wantErr  bool
		wantUser string
		wantRepo string
		wantRef  string
	}{
		"plain": {
			input:    "github:octo/widgets",
			wantUser: "octo",
			wantRepo: "widgets",
		},
		"with ref": {
			input:    "github:octo/widgets@main",
			wantUser: "octo",
			wantRepo: "widgets",
			wantRef:  "main",
		},
		"double slash form": {
			input:    "github://octo/widgets@v1.2.3",
			wantUser: "octo",
			wantRepo: "widgets",
			wantRef:  "v1.2.3",
		},
		"dotted repo name": {
			input:    "github:octo/widgets.go@feature/x",
			wantUser: "octo",
			wantRepo: "widgets.go",
			wantRef:  "feature/x",
		},
		"missing repo":     {input: "github:octo", wantErr: true},
		"empty":            {input: "github:", wantErr: true},
		"wrong prefix":     {input: "gitlab:octo/widgets", wantErr: true},
		"spaces in name":   {input: "github:octo/wid gets", wantErr: true},
		"trailing at sign": {input: "github:octo/widgets@", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseGithubLocator(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseGithubLocator(%q) error = %v, wantErr = %v", tc.input, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if got.User != tc.wantUser || got.Repo != tc.wantRepo || got.Ref != tc.wantRef {
				t.Errorf("parseGithubLocator(%q) = %s/%s@%s, want %s/%s@%s",
					tc.input, got.User, got.Repo, got.Ref, tc.wantUser, tc.wantRepo, tc.wantRef)
			}
			if got.Original() != tc.input {
				t.Errorf("Original() = %q, want %q", got.Original(), tc.input)
			}
		})
	}
}

func TestParseGitLocator(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantErr bool
		wantURL string
		wantRef string
	}{
		"https url without ref": {
			input:   "git:https://example.com/owner/repo.git",
			wantURL: "https://example.com/owner/repo.git",
		},
		"https url with ref": {
			input:   "git:https://example.com/owner/repo.git@v2",
			wantURL: "https://example.com/owner/repo.git",
			wantRef: "v2",
		},
		"ssh shorthand keeps at sign": {
			input:   "git:git@example.com:owner/repo.git",
			wantURL: "git@example.com:owner/repo.git",
		},
		"ssh shorthand with ref": {
			input:   "git:git@example.com:owner/repo.git@main",
			wantURL: "git@example.com:owner/repo.git",
			wantRef: "main",
		},
		"empty": {input: "git:", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseGitLocator(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseGitLocator(%q) error = %v, wantErr = %v", tc.input, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if got.URL != tc.wantURL || got.Ref != tc.wantRef {
				t.Errorf("parseGitLocator(%q) = %q@%q, want %q@%q", tc.input, got.URL, got.Ref, tc.wantURL, tc.wantRef)
			}
		})
	}
}

func TestLocatorDictRoundTrip(t *testing.T) {
	tests := map[string]struct {
		locator  Locator
		fromDict func(map[string]any) (Locator, error)
	}{
		"local": {
			locator:  NewLocalLocator("/data/packages"),
			fromDict: func(d map[string]any) (Locator, error) { return localLocatorFromDict(d) },
		},
		"git": {
			locator:  NewGitLocator("https://example.com/repo.git", "v1"),
			fromDict: func(d map[string]any) (Locator, error) { return gitLocatorFromDict(d) },
		},
		"github": {
			locator:  NewGithubLocator("octo", "widgets", "main"),
			fromDict: func(d map[string]any) (Locator, error) { return githubLocatorFromDict(d) },
		},
		"github without ref": {
			locator:  NewGithubLocator("octo", "widgets", ""),
			fromDict: func(d map[string]any) (Locator, error) { return githubLocatorFromDict(d) },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.fromDict(tc.locator.Dict())
			if err != nil {
				t.Fatalf("fromDict(Dict()) error = %v", err)
			}
			if got.Type() != tc.locator.Type() {
				t.Errorf("Type() = %q, want %q", got.Type(), tc.locator.Type())
			}
			if got.Name() != tc.locator.Name() {
				t.Errorf("Name() = %q, want %q: type-specific fields did not survive the round-trip", got.Name(), tc.locator.Name())
			}
		})
	}
}
