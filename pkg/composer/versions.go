package composer

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// versionsLine matches the "versions : a, b, c" line of composer show.
var versionsLine = regexp.MustCompile(`(?m)^[ \t]*versions[ \t]*:[ \t]*(.*?)[ \t\r]*$`)

// ParseVersions extracts the version list from human-readable composer show
// output. The order is kept as printed. Composer marks the installed version
// with "* ", which is dropped. It reports false when no such line exists or
// the line lists nothing.
func ParseVersions(output string) ([]string, bool) {
	m := versionsLine.FindStringSubmatch(output)
	if m == nil || m[1] == "" {
		return nil, false
	}

	parts := strings.Split(m[1], ", ")
	versions := make([]string, 0, len(parts))
	for _, v := range parts {
		v = strings.TrimPrefix(strings.TrimSpace(v), "* ")
		if v != "" {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return nil, false
	}
	return versions, true
}

// JSONLister lists versions through composer's machine-readable show output
// instead of scraping text.
type JSONLister struct {
	Manager *Manager
}

// AvailableVersions runs "composer show --all --format=json pkg" and returns
// the "versions" array.
func (l JSONLister) AvailableVersions(ctx context.Context, pkg string) ([]string, error) {
	req := NewRequest(CommandShow).
		Set(ParamAll, true).
		Set(ParamFormat, "json").
		Set(ParamPackage, pkg)

	output, err := l.Manager.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Versions []string `json:"versions"`
	}
	if err := json.Unmarshal([]byte(jsonBody(output)), &payload); err != nil || len(payload.Versions) == 0 {
		return nil, &VersionQueryError{Package: pkg, Output: output}
	}
	return payload.Versions, nil
}

// jsonBody skips any warnings composer prints before the JSON document.
func jsonBody(output string) string {
	if i := strings.Index(output, "{"); i > 0 {
		return output[i:]
	}
	return output
}

var (
	_ VersionLister = (*Manager)(nil)
	_ VersionLister = JSONLister{}
)
