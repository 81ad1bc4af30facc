package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Manifest sections touched by the manager.
const (
	SectionRequire = "require"
	SectionReplace = "replace"
	SectionVersion = "version"
)

const manifestIndent = "    "

// Manifest is a typed view of the parts of composer.json the updater reads.
type Manifest struct {
	Name    string
	Version string
	Require map[string]string
	Replace map[string]string
}

// ReadManifest loads and decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Require: doc.stringMap(SectionRequire),
		Replace: doc.stringMap(SectionReplace),
	}
	m.Name = doc.stringValue("name")
	m.Version = doc.stringValue(SectionVersion)
	return m, nil
}

// StripOverrides removes packages from the manifest's "replace" section and
// writes the manifest back. It does nothing when packages is empty. When a
// replace section exists the file is rewritten in normalized form even if
// none of the packages were present, so repeated calls yield identical bytes.
func StripOverrides(path string, packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	raw, ok := doc.get(SectionReplace)
	if !ok {
		return nil
	}

	if replace, err := parseObject(raw); err == nil {
		for _, name := range packages {
			replace.remove(name)
		}
		compact, err := replace.compact()
		if err != nil {
			return &ManifestError{Path: path, Err: err}
		}
		doc.set(SectionReplace, compact)
	}

	return writeDocument(path, doc)
}

func readDocument(path string) (*object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	doc, err := parseObject(data)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	return doc, nil
}

func writeDocument(path string, doc *object) error {
	data, err := doc.encode()
	if err != nil {
		return &ManifestError{Path: path, Err: err}
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return &ManifestError{Path: path, Err: err}
	}
	return nil
}

// object is a JSON object that remembers its key order. Values are kept raw.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func parseObject(data []byte) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("invalid JSON: top-level value is not an object")
	}

	o := &object{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid JSON: unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		o.set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: trailing data after object")
	}
	return o, nil
}

func (o *object) get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *object) set(key string, value json.RawMessage) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) remove(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *object) stringValue(key string) string {
	var s string
	if raw, ok := o.values[key]; ok {
		_ = json.Unmarshal(raw, &s) //nolint:errcheck
	}
	return s
}

// stringMap decodes a section of string values, ignoring non-object sections
// such as the empty array some tools write for an empty map.
func (o *object) stringMap(key string) map[string]string {
	out := make(map[string]string)
	raw, ok := o.values[key]
	if !ok {
		return out
	}
	section, err := parseObject(raw)
	if err != nil {
		return out
	}
	for _, k := range section.keys {
		var s string
		if err := json.Unmarshal(section.values[k], &s); err == nil {
			out[k] = s
		}
	}
	return out
}

func (o *object) compact() (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(o.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encode renders the object indented with a trailing newline.
func (o *object) encode() ([]byte, error) {
	compact, err := o.compact()
	if err != nil {
		return nil, err
	}
	compact, err = reencodeStrings(compact)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", manifestIndent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// reencodeStrings rewrites every escaped string literal in data through
// encodeString, so untouched keys and values lose "\/" and "\uXXXX"
// escapes the same way rewritten ones do.
func reencodeStrings(data []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '"' {
			out.WriteByte(data[i])
			continue
		}
		end, escaped := i+1, false
		for end < len(data) && data[end] != '"' {
			if data[end] == '\\' {
				escaped = true
				end++
			}
			end++
		}
		if end >= len(data) {
			return nil, fmt.Errorf("unterminated string at offset %d", i)
		}
		literal := data[i : end+1]
		if escaped {
			var s string
			if err := json.Unmarshal(literal, &s); err != nil {
				return nil, err
			}
			enc, err := encodeString(s)
			if err != nil {
				return nil, err
			}
			literal = enc
		}
		out.Write(literal)
		i = end
	}
	return out.Bytes(), nil
}

func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
