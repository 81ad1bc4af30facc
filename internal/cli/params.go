package cli

import (
	"fmt"
	"os"
	"strings"

	"updater/pkg/composer"

	"gopkg.in/yaml.v3"
)

// parsePackageArg turns "vendor/name:constraint" (or "vendor/name=constraint")
// into a parameter record. A missing constraint leaves package_version unset
// so the directive reports the record as invalid.
func parsePackageArg(arg string) composer.Params {
	sep := strings.IndexAny(arg, ":=")
	if sep < 0 {
		return composer.Params{composer.ParamPackageName: strings.TrimSpace(arg)}
	}
	return composer.Package(strings.TrimSpace(arg[:sep]), strings.TrimSpace(arg[sep+1:]))
}

// loadParams reads parameter records from a YAML or JSON file. Three shapes
// are accepted, in document order:
//
//	- {package_name: vendor/a, package_version: 1.0}   # list of records
//	packages: [{package_name: ..., package_version: ...}]
//	vendor/a: 1.0                                       # name to constraint
func loadParams(path string) ([]composer.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	params, err := decodeParams(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return params, nil
}

func decodeParams(data []byte) ([]composer.Params, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return decodeRecords(root)
	case yaml.MappingNode:
		if packages := mappingValue(root, "packages"); packages != nil {
			if packages.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: packages must be a list", packages.Line)
			}
			return decodeRecords(packages)
		}
		return decodePairs(root)
	}
	return nil, fmt.Errorf("line %d: expected a list or mapping of packages", root.Line)
}

func decodeRecords(seq *yaml.Node) ([]composer.Params, error) {
	params := make([]composer.Params, 0, len(seq.Content))
	for _, item := range seq.Content {
		var p composer.Params
		if err := item.Decode(&p); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		params = append(params, p)
	}
	return params, nil
}

func decodePairs(m *yaml.Node) ([]composer.Params, error) {
	params := make([]composer.Params, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: version of %s must be a string", value.Line, key.Value)
		}
		params = append(params, composer.Package(key.Value, value.Value))
	}
	return params, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// collectParams merges records from --from (first) with positional arguments.
func collectParams(from string, args []string) ([]composer.Params, error) {
	var params []composer.Params
	if from != "" {
		loaded, err := loadParams(from)
		if err != nil {
			return nil, err
		}
		params = append(params, loaded...)
	}
	for _, arg := range args {
		params = append(params, parsePackageArg(arg))
	}
	return params, nil
}

// describeParams renders records as name:constraint for display and the journal.
func describeParams(params []composer.Params) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		name, version := p[composer.ParamPackageName], p[composer.ParamPackageVersion]
		switch {
		case name != "" && version != "":
			out = append(out, name+":"+version)
		case name != "":
			out = append(out, name)
		default:
			out = append(out, fmt.Sprint(map[string]string(p)))
		}
	}
	return out
}
