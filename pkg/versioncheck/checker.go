// Package versioncheck reports the newest stable and development versions a
// registry offers for the product package.
//
// "Latest" means first in registry order, as reported by composer; the list is
// never re-sorted. HighestStable is available when a semantic maximum is wanted.
package versioncheck

import (
	"context"
	"strings"
	"sync"

	"updater/pkg/composer"
)

// DefaultPackage is the product distribution package.
const DefaultPackage = "magento/product-community-edition"

const devPrefix = "dev"

// Checker classifies the versions available for one package. The version list
// is fetched once and cached until Refresh or Invalidate is called.
type Checker struct {
	lister composer.VersionLister
	dir    string
	pkg    string

	mu       sync.Mutex
	versions []string
	fetched  bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithPackage overrides the package whose versions are checked.
func WithPackage(pkg string) Option {
	return func(c *Checker) {
		if pkg != "" {
			c.pkg = pkg
		}
	}
}

// WithManifestDir overrides the manifest directory used by the default lister.
func WithManifestDir(dir string) Option {
	return func(c *Checker) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// WithLister replaces the default composer.Manager lister.
func WithLister(l composer.VersionLister) Option {
	return func(c *Checker) {
		c.lister = l
	}
}

// New creates a Checker. Without WithLister it queries composer through a
// Manager for the manifest directory (the working directory by default).
func New(opts ...Option) *Checker {
	c := &Checker{
		dir: ".",
		pkg: DefaultPackage,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lister == nil {
		c.lister = composer.NewManager(c.dir)
	}
	return c
}

// Package returns the package being checked.
func (c *Checker) Package() string {
	return c.pkg
}

// AvailableVersions returns the cached version list, fetching it on first use.
func (c *Checker) AvailableVersions(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetched {
		return c.versions, nil
	}
	return c.fetch(ctx)
}

// Refresh discards the cached list and fetches it again.
func (c *Checker) Refresh(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions = nil
	c.fetched = false
	return c.fetch(ctx)
}

// Invalidate discards the cached list; the next call fetches it again.
func (c *Checker) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions = nil
	c.fetched = false
}

// Cached returns the cached list without fetching.
func (c *Checker) Cached() ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions, c.fetched
}

func (c *Checker) fetch(ctx context.Context) ([]string, error) {
	versions, err := c.lister.AvailableVersions(ctx, c.pkg)
	if err != nil {
		return nil, err
	}
	c.versions = versions
	c.fetched = true
	return versions, nil
}

// LatestProductVersion returns the first version not starting with "dev",
// or "" if there is none.
func (c *Checker) LatestProductVersion(ctx context.Context) (string, error) {
	versions, err := c.AvailableVersions(ctx)
	if err != nil {
		return "", err
	}
	return firstMatch(versions, false), nil
}

// LatestDevelopmentVersion returns the first version starting with "dev",
// or "" if there is none.
func (c *Checker) LatestDevelopmentVersion(ctx context.Context) (string, error) {
	versions, err := c.AvailableVersions(ctx)
	if err != nil {
		return "", err
	}
	return firstMatch(versions, true), nil
}

// IsDevelopment reports whether v names a development snapshot.
func IsDevelopment(v string) bool {
	return strings.HasPrefix(v, devPrefix)
}

func firstMatch(versions []string, dev bool) string {
	for _, v := range versions {
		if IsDevelopment(v) == dev {
			return v
		}
	}
	return ""
}

// LatestOf returns the latest product and development versions of an
// already fetched list, using the same rules as the Checker methods.
func LatestOf(versions []string) (product, dev string) {
	return firstMatch(versions, false), firstMatch(versions, true)
}
