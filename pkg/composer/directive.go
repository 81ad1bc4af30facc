package composer

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Composer subcommands issued by the manager.
const (
	CommandRequire = "require"
	CommandUpdate  = "update"
	CommandShow    = "show"
)

// Parameter record keys, as carried by update jobs.
const (
	ParamPackageName    = "package_name"
	ParamPackageVersion = "package_version"
)

// Params is one parameter record of a directive.
type Params map[string]string

// Package returns a record for the require directive.
func Package(name, version string) Params {
	return Params{ParamPackageName: name, ParamPackageVersion: version}
}

// Directive applies a named manifest mutation through the manager.
// Apply runs with the manager lock held, so it issues commands through m.Run.
type Directive interface {
	Apply(ctx context.Context, m *Manager, params []Params) error
}

// DirectiveFunc adapts a function to the Directive interface.
type DirectiveFunc func(ctx context.Context, m *Manager, params []Params) error

// Apply calls f.
func (f DirectiveFunc) Apply(ctx context.Context, m *Manager, params []Params) error {
	return f(ctx, m, params)
}

// HandlerName converts a kebab-case directive name into its handler key by
// capitalizing each hyphen-separated segment: "require-dev" -> "RequireDev".
func HandlerName(directive string) string {
	var sb strings.Builder
	for _, part := range strings.Split(directive, "-") {
		r, size := utf8.DecodeRuneInString(part)
		if size == 0 {
			continue
		}
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(part[size:])
	}
	return sb.String()
}

// DirectiveName converts a handler key back into the kebab-case name users
// type: "RequireDev" -> "require-dev".
func DirectiveName(handler string) string {
	var sb strings.Builder
	for i, r := range handler {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// defaultDirectives returns the built-in handlers keyed by handler name.
func defaultDirectives() map[string]Directive {
	return map[string]Directive{
		HandlerName(CommandRequire): DirectiveFunc(requireDirective),
	}
}

// requireDirective pins packages in "require" without resolving dependencies.
// Every record is validated before anything runs; matching "replace" entries
// are removed before composer is invoked and are not restored if it fails.
func requireDirective(ctx context.Context, m *Manager, params []Params) error {
	if len(params) == 0 {
		return &ValidationError{Directive: CommandRequire, Reason: "no packages given"}
	}

	req := NewRequest(CommandRequire).Set(ParamNoUpdate, true)
	packages := make([]string, 0, len(params))
	var invalid []int

	for i, p := range params {
		name := strings.TrimSpace(p[ParamPackageName])
		version := strings.TrimSpace(p[ParamPackageVersion])
		if name == "" || version == "" {
			invalid = append(invalid, i)
			continue
		}
		req.Append(ParamPackages, name+":"+version)
		packages = append(packages, name)
	}
	if len(invalid) > 0 {
		return &ValidationError{Directive: CommandRequire, Records: invalid}
	}

	if m.DryRun() {
		m.logger.Info("dry-run: leaving replace section untouched", "packages", packages)
	} else {
		if err := StripOverrides(m.ManifestPath(), packages); err != nil {
			return err
		}
		m.logger.Debug("stripped overrides", "packages", packages)
	}

	_, err := m.execute(ctx, req)
	return err
}
