package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/clirack/clirack/pkg/fsutil"
)

// DefaultGithubAPIBaseURL is the GitHub REST API root the archive
// endpoint is built from.
const DefaultGithubAPIBaseURL = "https://api.github.com"

// githubReloadInterval is how long a cached GitHub archive stays fresh
// before the next load refetches it.
const githubReloadInterval = 24 * time.Hour

const zipballName = "zipball.zip"

// GithubLoader fetches GitHub repositories as zipball archives through the
// GitHub archive API. Cached copies go stale after a day.
type GithubLoader struct {
	base

	// APIBaseURL lets tests point the archive endpoint at a local server.
	APIBaseURL string
	// Client is the HTTP client used for the download; http.DefaultClient
	// when nil.
	Client *http.Client
}

var _ Loader = &GithubLoader{}

// NewGithubLoader returns a GitHub archive loader caching under targetDir
// (DefaultTargetDir when empty).
func NewGithubLoader(targetDir string) *GithubLoader {
	l := &GithubLoader{APIBaseURL: DefaultGithubAPIBaseURL}
	l.base = newBase(TypeGithub, TypeGithub, targetDir, func(d map[string]any) (Locator, error) {
		return githubLocatorFromDict(d)
	})
	l.base.reloadInterval = githubReloadInterval
	return l
}

func (l *GithubLoader) ResolveLocator(locator any) (Locator, error) {
	return l.resolveLocator(locator, func(s string) (Locator, error) {
		return parseGithubLocator(s)
	})
}

// archiveURL builds the zipball endpoint for the locator. An empty ref
// yields the repository's default branch.
func (l *GithubLoader) archiveURL(loc *GithubLocator) string {
	return fmt.Sprintf("%s/repos/%s/%s/zipball/%s", l.APIBaseURL, loc.User, loc.Repo, loc.Ref)
}

func (l *GithubLoader) Load(locator any, resolver TargetPathResolver, forceReload bool) (*LoadedMeta, error) {
	loc, err := l.ResolveLocator(locator)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loading", "locator", loc.String())
	gh := loc.(*GithubLocator)

	target := l.cache.Path(gh.Name())
	meta, reload := l.checkShouldLoad(target, forceReload)
	if !reload {
		l.logger.Info("local copy exists and it is up to date", "locator", loc.String())
		return meta, nil
	}

	if err := l.cache.EnsureDir(gh.Name()); err != nil {
		return nil, wrapError(ErrTransport, loc, err, "creating cache directory %s", target)
	}
	sourceURL := l.archiveURL(gh)
	l.logger.Debug("fetching", "source", sourceURL, "target", target)

	zipballPath := filepath.Join(target, zipballName)
	if err := l.download(sourceURL, zipballPath); err != nil {
		os.RemoveAll(target)
		return nil, wrapError(ErrTransport, loc, err, "unable to fetch remote resource %s", loc)
	}

	if err := fsutil.Unzip(zipballPath, target, true); err != nil {
		os.RemoveAll(target)
		return nil, wrapError(ErrArchive, loc, err, "unable to unpack the resource %s", loc)
	}
	os.Remove(zipballPath)

	meta = NewLoadedMeta(loc, target)
	meta.IsFile = false
	return l.finishMeta(meta, resolver)
}

func (l *GithubLoader) download(url, dest string) error {
	l.logger.Info("downloading archive from github", "url", url)
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return out.Close()
}

func init() {
	Register(NewGithubLoader(DefaultTargetDir))
}
