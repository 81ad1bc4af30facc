// Package composer edits a composer.json manifest and drives the composer
// executable on its behalf.
//
// A Manager is bound to one manifest directory. Directives such as "require"
// validate their parameters, adjust the manifest where composer itself would
// not, and then run composer; a non-zero exit is translated into a
// *CommandError carrying the request and the captured output.
//
//	m := composer.NewManager("/var/www/shop")
//	_, err := m.UpdateConfigFile(ctx, "require", []composer.Params{
//	    composer.Package("vendor/module", "2.0.0"),
//	})
package composer

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// VersionLister reports the versions a registry offers for a package, in
// registry order.
type VersionLister interface {
	AvailableVersions(ctx context.Context, pkg string) ([]string, error)
}

// Manager manages a composer.json and runs composer commands against it.
// Operations on one Manager are serialized.
type Manager struct {
	mu         sync.Mutex
	dir        string
	runner     Runner
	directives map[string]Directive
	logger     *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRunner replaces the default subprocess runner.
func WithRunner(r Runner) Option {
	return func(m *Manager) {
		m.runner = r
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDirective registers an additional directive under its kebab-case name.
func WithDirective(name string, d Directive) Option {
	return func(m *Manager) {
		m.directives[HandlerName(name)] = d
	}
}

// NewManager creates a manager for <dir>/composer.json.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:        dir,
		directives: defaultDirectives(),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runner == nil {
		m.runner = NewCLIRunner(nil, dir, WithRunnerLogger(m.logger))
	}
	return m
}

// Dir returns the manifest directory.
func (m *Manager) Dir() string {
	return m.dir
}

// ManifestPath returns the path of composer.json.
func (m *Manager) ManifestPath() string {
	return filepath.Join(m.dir, ManifestFile)
}

// RegisterDirective adds or replaces a directive handler.
func (m *Manager) RegisterDirective(name string, d Directive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directives[HandlerName(name)] = d
}

// Directives returns the registered handler names, sorted.
func (m *Manager) Directives() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.directives))
	for name := range m.directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateConfigFile applies the named directive with params.
func (m *Manager) UpdateConfigFile(ctx context.Context, directive string, params []Params) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handler, ok := m.directives[HandlerName(directive)]
	if !ok {
		return false, &UnsupportedDirectiveError{Directive: directive}
	}

	m.logger.Debug("applying directive", "directive", directive, "records", len(params))
	if err := handler.Apply(ctx, m, params); err != nil {
		return false, err
	}
	return true, nil
}

// RunUpdate runs "composer update" for the manifest.
func (m *Manager) RunUpdate(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.execute(ctx, NewRequest(CommandUpdate)); err != nil {
		return false, err
	}
	return true, nil
}

// AvailableVersions lists every version the registry offers for pkg by
// scraping the "versions :" line of "composer show --all".
func (m *Manager) AvailableVersions(ctx context.Context, pkg string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req := NewRequest(CommandShow).Set(ParamAll, true).Set(ParamPackage, pkg)
	output, err := m.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	versions, ok := ParseVersions(output)
	if !ok {
		return nil, &VersionQueryError{Package: pkg, Output: output}
	}
	m.logger.Debug("available versions", "package", pkg, "count", len(versions))
	return versions, nil
}

// Execute runs req and returns composer's output, translating a non-zero exit
// into a *CommandError.
func (m *Manager) Execute(ctx context.Context, req *Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.execute(ctx, req)
}

// execute is Execute without locking; directives call it while the manager
// lock is held.
func (m *Manager) execute(ctx context.Context, req *Request) (string, error) {
	res, err := m.runner.Run(ctx, req)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", &CommandError{
			Command:  req.Command(),
			Request:  req.String(),
			ExitCode: res.ExitCode,
			Output:   res.Output,
		}
	}
	return res.Output, nil
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *log.Logger {
	return m.logger
}

// Run executes req on behalf of a directive. It must only be called from
// within Directive.Apply.
func (m *Manager) Run(ctx context.Context, req *Request) (string, error) {
	return m.execute(ctx, req)
}

// DryRun reports whether the runner only prints commands. Directives skip
// manifest edits in that mode.
func (m *Manager) DryRun() bool {
	if d, ok := m.runner.(interface{ DryRun() bool }); ok {
		return d.DryRun()
	}
	return false
}
