package versioncheck

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// patchSuffix matches vendor patch releases such as 2.4.6-p1, 2.4.6-pl2
// or 2.4.6-patch.3. Those ship as stable builds of the base version.
var patchSuffix = regexp.MustCompile(`^(?i)(?:p|pl|patch)\.?(\d+)$`)

// Stability classifies a version string.
type Stability int

const (
	StabilityUnknown Stability = iota
	StabilityStable
	StabilityPrerelease
	StabilityDev
)

func (s Stability) String() string {
	switch s {
	case StabilityStable:
		return "stable"
	case StabilityPrerelease:
		return "prerelease"
	case StabilityDev:
		return "dev"
	}
	return "unknown"
}

// StabilityOf classifies v. Anything starting with "dev" is a development
// snapshot; otherwise v must parse as a semantic version. A patch-release
// suffix (-pN, -plN, -patchN) keeps the version stable.
func StabilityOf(v string) Stability {
	if IsDevelopment(v) {
		return StabilityDev
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return StabilityUnknown
	}
	if _, ok := patchLevel(sv); !ok {
		return StabilityPrerelease
	}
	return StabilityStable
}

// patchLevel reports the patch-release number of sv: 0 for a plain
// release, N for a -pN style suffix. ok is false for any other prerelease.
func patchLevel(sv *semver.Version) (level int, ok bool) {
	pre := sv.Prerelease()
	if pre == "" {
		return 0, true
	}
	m := patchSuffix.FindStringSubmatch(pre)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

type stableVersion struct {
	core     *semver.Version
	level    int
	original string
}

// HighestStable returns the highest stable version in versions, or "" when
// none parses as a stable release. Patch releases order after their base
// version and by patch number.
func HighestStable(versions []string) string {
	var stable []stableVersion
	for _, v := range versions {
		if IsDevelopment(v) {
			continue
		}
		sv, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		level, ok := patchLevel(sv)
		if !ok {
			continue
		}
		stable = append(stable, stableVersion{
			core:     semver.New(sv.Major(), sv.Minor(), sv.Patch(), "", ""),
			level:    level,
			original: v,
		})
	}
	if len(stable) == 0 {
		return ""
	}
	sort.SliceStable(stable, func(i, j int) bool {
		if c := stable[i].core.Compare(stable[j].core); c != 0 {
			return c < 0
		}
		return stable[i].level < stable[j].level
	})
	return stable[len(stable)-1].original
}
