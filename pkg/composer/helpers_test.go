package composer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixtureManifest = `{
    "name": "magento/project-community-edition",
    "description": "eCommerce Platform for Growth",
    "version": "0.74.0-beta1",
    "require": {
        "php": "~5.5.0|~5.6.0",
        "composer/composer": "1.0.0-alpha9",
        "magento/product-community-edition": "0.74.0-beta1"
    },
    "replace": {
        "magento/module-admin-notification": "*",
        "magento/module-backend": "*"
    },
    "extra": {
        "magento-root-dir": "./"
    }
}
`

// writeManifest creates composer.json in a temp dir and returns the dir.
func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// fakeRunner records requests and, when manifest is set, applies
// "require --no-update" to it the way composer would.
type fakeRunner struct {
	t        *testing.T
	manifest string
	exitCode int
	output   string
	err      error
	dryRun   bool
	requests []*Request
}

func (f *fakeRunner) Run(ctx context.Context, req *Request) (Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return Result{}, f.err
	}
	if f.exitCode != 0 {
		return Result{ExitCode: f.exitCode, Output: f.output}, nil
	}
	if req.Command() == CommandRequire && f.manifest != "" {
		f.applyRequire(req)
	}
	return Result{Output: f.output}, nil
}

func (f *fakeRunner) DryRun() bool {
	return f.dryRun
}

func (f *fakeRunner) applyRequire(req *Request) {
	f.t.Helper()

	doc, err := readDocument(f.manifest)
	if err != nil {
		f.t.Fatalf("fake composer: %v", err)
	}
	require := &object{values: make(map[string]json.RawMessage)}
	if raw, ok := doc.get(SectionRequire); ok {
		if require, err = parseObject(raw); err != nil {
			f.t.Fatalf("fake composer: %v", err)
		}
	}

	packages, _ := req.Get(ParamPackages)
	for _, entry := range packages.([]string) {
		name, version, _ := strings.Cut(entry, ":")
		value, err := encodeString(version)
		if err != nil {
			f.t.Fatalf("fake composer: %v", err)
		}
		require.set(name, value)
	}

	compact, err := require.compact()
	if err != nil {
		f.t.Fatalf("fake composer: %v", err)
	}
	doc.set(SectionRequire, compact)
	if err := writeDocument(f.manifest, doc); err != nil {
		f.t.Fatalf("fake composer: %v", err)
	}
}
