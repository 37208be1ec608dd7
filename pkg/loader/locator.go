package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Locator identifies a fetchable external resource and its protocol.
// Implementations must produce a deterministic Name for the same semantic
// target so the cache directory is reused across runs.
type Locator interface {
	// Name is the stable identifier used as the cache sub-directory name.
	Name() string
	// Type is the protocol tag used for serialization round-tripping.
	Type() string
	// Original is the exact locator string the caller supplied, or empty
	// when the locator was constructed structurally.
	Original() string
	// Dict returns the JSON-serializable representation of the locator.
	Dict() map[string]any

	fmt.Stringer
}

const (
	// PrefixDelimiter separates the protocol prefix from the rest of a
	// locator string, e.g. "github:owner/repo".
	PrefixDelimiter = ":"

	TypeLocal  = "local"
	TypeGit    = "git"
	TypeGithub = "github"
)

// HashSuffix returns the first 8 hex characters of the SHA-1 digest of s.
// It is appended to human-readable name prefixes to keep cache directory
// names collision-resistant while staying deterministic.
func HashSuffix(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

func locatorString(l Locator) string {
	if l.Original() != "" {
		return l.Original()
	}
	return fmt.Sprintf("Locator<%s> -> %s", l.Type(), l.Name())
}

func dictString(d map[string]any, key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// LocalLocator points at a file or directory on the local filesystem.
type LocalLocator struct {
	Path string

	original string
}

// NewLocalLocator builds a locator for the given filesystem path.
func NewLocalLocator(path string) *LocalLocator {
	return &LocalLocator{Path: path}
}

func (l *LocalLocator) Name() string {
	return filepath.Base(l.Path) + "-" + HashSuffix(l.Path)
}

func (l *LocalLocator) Type() string     { return TypeLocal }
func (l *LocalLocator) Original() string { return l.original }
func (l *LocalLocator) String() string   { return locatorString(l) }

func (l *LocalLocator) Dict() map[string]any {
	return map[string]any{
		"type":             l.Type(),
		"original_locator": l.original,
		"path":             l.Path,
	}
}

func localLocatorFromDict(d map[string]any) (*LocalLocator, error) {
	path := dictString(d, "path")
	if path == "" {
		return nil, fmt.Errorf("local locator dict is missing %q", "path")
	}
	return &LocalLocator{Path: path, original: dictString(d, "original_locator")}, nil
}

// GitLocator points at an arbitrary git repository by clone URL, with an
// optional branch, tag, or commit ref.
type GitLocator struct {
	URL string
	Ref string

	original string
}

// NewGitLocator builds a locator for the given clone URL and optional ref.
func NewGitLocator(url, ref string) *GitLocator {
	return &GitLocator{URL: url, Ref: ref}
}

func (l *GitLocator) Name() string {
	return HashSuffix(refSuffixed(l.URL, l.Ref))
}

func (l *GitLocator) Type() string     { return TypeGit }
func (l *GitLocator) Original() string { return l.original }
func (l *GitLocator) String() string   { return locatorString(l) }

func (l *GitLocator) Dict() map[string]any {
	return map[string]any{
		"type":             l.Type(),
		"original_locator": l.original,
		"url":              l.URL,
		"ref":              l.Ref,
	}
}

func gitLocatorFromDict(d map[string]any) (*GitLocator, error) {
	url := dictString(d, "url")
	if url == "" {
		return nil, fmt.Errorf("git locator dict is missing %q", "url")
	}
	return &GitLocator{
		URL:      url,
		Ref:      dictString(d, "ref"),
		original: dictString(d, "original_locator"),
	}, nil
}

// GithubLocator points at a GitHub repository fetched through the archive
// API rather than a git clone. Ref is a branch, tag, or commit name; empty
// means the repository's default branch.
type GithubLocator struct {
	User string
	Repo string
	Ref  string

	original string
}

// NewGithubLocator builds a locator for the given owner/repository pair and
// optional ref.
func NewGithubLocator(user, repo, ref string) *GithubLocator {
	return &GithubLocator{User: user, Repo: repo, Ref: ref}
}

// URL returns the canonical repository URL the cache name is derived from.
func (l *GithubLocator) URL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", l.User, l.Repo)
}

func (l *GithubLocator) Name() string {
	return l.User + "-" + l.Repo + "-" + HashSuffix(refSuffixed(l.URL(), l.Ref))
}

func (l *GithubLocator) Type() string     { return TypeGithub }
func (l *GithubLocator) Original() string { return l.original }
func (l *GithubLocator) String() string   { return locatorString(l) }

func (l *GithubLocator) Dict() map[string]any {
	return map[string]any{
		"type":             l.Type(),
		"original_locator": l.original,
		"user_name":        l.User,
		"repo_name":        l.Repo,
		"ref":              l.Ref,
	}
}

func githubLocatorFromDict(d map[string]any) (*GithubLocator, error) {
	user := dictString(d, "user_name")
	repo := dictString(d, "repo_name")
	if user == "" || repo == "" {
		return nil, fmt.Errorf("github locator dict is missing %q or %q", "user_name", "repo_name")
	}
	return &GithubLocator{
		User:     user,
		Repo:     repo,
		Ref:      dictString(d, "ref"),
		original: dictString(d, "original_locator"),
	}, nil
}

func refSuffixed(url, ref string) string {
	if ref != "" {
		return url + "@" + ref
	}
	return url
}

// githubLocatorRe accepts "github:owner/repo[@ref]" with an optional "//"
// after the prefix delimiter.
var githubLocatorRe = regexp.MustCompile(
	`^github:(?://)?([a-zA-Z0-9\-]+)/([a-zA-Z0-9\-._]+?)(?:@([a-zA-Z0-9\-_./]+))?$`,
)

func parseGithubLocator(s string) (*GithubLocator, error) {
	m := githubLocatorRe.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf(
			"invalid github locator %q: supported format is github:username/name[@branch-or-tag]", s)
	}
	return &GithubLocator{User: m[1], Repo: m[2], Ref: m[3], original: s}, nil
}

func parseLocalLocator(s string) (*LocalLocator, error) {
	path := strings.TrimPrefix(s, TypeLocal+PrefixDelimiter)
	if path == "" {
		return nil, fmt.Errorf("invalid local locator %q: supported format is local:path", s)
	}
	return &LocalLocator{Path: path, original: s}, nil
}

// parseGitLocator splits "git:<url>[@<ref>]". The "@<ref>" suffix is only
// recognized when the segment after the last "@" contains no "/" or ":",
// so ssh-style URLs like git@host:owner/repo.git keep their "@" intact.
func parseGitLocator(s string) (*GitLocator, error) {
	rest := strings.TrimPrefix(s, TypeGit+PrefixDelimiter)
	if rest == "" {
		return nil, fmt.Errorf("invalid git locator %q: supported format is git:url[@ref]", s)
	}
	url, ref := rest, ""
	if i := strings.LastIndex(rest, "@"); i > 0 {
		candidate := rest[i+1:]
		if candidate != "" && !strings.ContainsAny(candidate, "/:") {
			url, ref = rest[:i], candidate
		}
	}
	if url == "" {
		return nil, fmt.Errorf("invalid git locator %q: supported format is git:url[@ref]", s)
	}
	return &GitLocator{URL: url, Ref: ref, original: s}, nil
}
