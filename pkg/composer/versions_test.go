package composer

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParseVersions(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected []string
		ok       bool
	}{
		{
			name:     "single line",
			output:   "versions : dev-master, 1.0.0, 1.0.0-beta1",
			expected: []string{"dev-master", "1.0.0", "1.0.0-beta1"},
			ok:       true,
		},
		{
			name:     "among other fields",
			output:   "name     : vendor/pkg\nversions : 2.0.0, 1.0.0\ntype     : library\n",
			expected: []string{"2.0.0", "1.0.0"},
			ok:       true,
		},
		{
			name:     "installed marker",
			output:   "versions : dev-develop, * 1.1.0, 1.0.0\r\n",
			expected: []string{"dev-develop", "1.1.0", "1.0.0"},
			ok:       true,
		},
		{
			name:     "order preserved",
			output:   "versions : 1.0.0, 3.0.0, dev-feature, 2.0.0",
			expected: []string{"1.0.0", "3.0.0", "dev-feature", "2.0.0"},
			ok:       true,
		},
		{
			name:   "no versions line",
			output: "name     : vendor/pkg\ntype     : library\n",
		},
		{
			name:   "label is case-sensitive",
			output: "Versions : 1.0.0",
		},
		{
			name:   "empty list",
			output: "versions : \n",
		},
		{
			name:   "empty output",
			output: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersions(tt.output)
			if ok != tt.ok {
				t.Fatalf("ParseVersions() ok = %v, want %v", ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseVersions() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJSONLister(t *testing.T) {
	runner := &fakeRunner{t: t, output: `{"name":"vendor/pkg","versions":["dev-master","1.2.0","1.1.0"]}`}
	m := NewManager(t.TempDir(), WithRunner(runner))

	versions, err := JSONLister{Manager: m}.AvailableVersions(context.Background(), "vendor/pkg")
	if err != nil {
		t.Fatalf("AvailableVersions() error: %v", err)
	}
	if want := []string{"dev-master", "1.2.0", "1.1.0"}; !reflect.DeepEqual(versions, want) {
		t.Errorf("AvailableVersions() = %v, want %v", versions, want)
	}

	wantArgs := []string{"show", "--all", "--format=json", "vendor/pkg"}
	if got := runner.requests[0].Args(); !reflect.DeepEqual(got, wantArgs) {
		t.Errorf("Args() = %v, want %v", got, wantArgs)
	}
}

func TestJSONListerLeadingWarnings(t *testing.T) {
	runner := &fakeRunner{t: t, output: "Warning: composer.lock is not up to date\n{\"versions\":[\"1.0.0\"]}"}
	m := NewManager(t.TempDir(), WithRunner(runner))

	versions, err := JSONLister{Manager: m}.AvailableVersions(context.Background(), "vendor/pkg")
	if err != nil {
		t.Fatalf("AvailableVersions() error: %v", err)
	}
	if len(versions) != 1 || versions[0] != "1.0.0" {
		t.Errorf("AvailableVersions() = %v", versions)
	}
}

func TestJSONListerNoVersions(t *testing.T) {
	for _, output := range []string{`{"name":"vendor/pkg"}`, "not json", `{"versions":[]}`} {
		runner := &fakeRunner{t: t, output: output}
		m := NewManager(t.TempDir(), WithRunner(runner))

		_, err := JSONLister{Manager: m}.AvailableVersions(context.Background(), "vendor/pkg")
		if !errors.Is(err, ErrVersionQuery) {
			t.Errorf("output %q: expected ErrVersionQuery, got %v", output, err)
		}
	}
}
