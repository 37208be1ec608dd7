package loader

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitLoader fetches arbitrary git repositories with a shallow clone. It
// needs a git executable on PATH. Cached copies never expire by age.
type GitLoader struct {
	base
}

var _ Loader = &GitLoader{}

// NewGitLoader returns a git loader caching under targetDir
// (DefaultTargetDir when empty).
func NewGitLoader(targetDir string) *GitLoader {
	l := &GitLoader{}
	l.base = newBase(TypeGit, TypeGit, targetDir, func(d map[string]any) (Locator, error) {
		return gitLocatorFromDict(d)
	})
	return l
}

func (l *GitLoader) ResolveLocator(locator any) (Locator, error) {
	return l.resolveLocator(locator, func(s string) (Locator, error) {
		return parseGitLocator(s)
	})
}

func (l *GitLoader) Load(locator any, resolver TargetPathResolver, forceReload bool) (*LoadedMeta, error) {
	loc, err := l.ResolveLocator(locator)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loading", "locator", loc.String())
	git := loc.(*GitLocator)

	target := l.cache.Path(git.Name())
	meta, reload := l.checkShouldLoad(target, forceReload)
	if !reload {
		l.logger.Info("cached version is up to date", "locator", loc.String())
		return meta, nil
	}

	if err := l.cache.EnsureDir(git.Name()); err != nil {
		return nil, wrapError(ErrTransport, loc, err, "creating cache directory %s", target)
	}
	l.logger.Info("cloning repository", "url", git.URL, "ref", git.Ref)
	if err := l.clone(git, target); err != nil {
		os.RemoveAll(target)
		return nil, wrapError(ErrTransport, loc, err, "unable to fetch remote resource %s", loc)
	}
	// The cache holds the working tree only.
	os.RemoveAll(filepath.Join(target, ".git"))

	meta = NewLoadedMeta(loc, target)
	meta.IsFile = false
	return l.finishMeta(meta, resolver)
}

// clone performs a shallow clone of the repository into dest, using
// --branch when a ref is set.
func (l *GitLoader) clone(loc *GitLocator, dest string) error {
	args := []string{"clone", "--depth", "1"}
	if loc.Ref != "" {
		args = append(args, "--branch", loc.Ref)
	}
	args = append(args, loc.URL, dest)
	cmd := exec.Command("git", args...)
	if _, err := cmd.Output(); err != nil {
		return execError(err)
	}
	return nil
}

// execError surfaces git's stderr in the error message.
func execError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return err
}

func init() {
	Register(NewGitLoader(DefaultTargetDir))
}
