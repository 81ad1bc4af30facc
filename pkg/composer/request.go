package composer

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Request argument names understood by composer.
const (
	ParamCommand  = "command"
	ParamNoUpdate = "--no-update"
	ParamPackages = "packages"
	ParamPackage  = "package"
	ParamAll      = "--all"
	ParamFormat   = "--format"
)

// Request is an ordered set of composer arguments. Values are strings, bools
// or string slices. Names starting with "-" are options; everything else other
// than "command" is positional.
type Request struct {
	keys   []string
	values map[string]any
}

// NewRequest creates a request for the given composer subcommand.
func NewRequest(command string) *Request {
	r := &Request{values: make(map[string]any)}
	return r.Set(ParamCommand, command)
}

// Set stores an argument, keeping the position of the first Set for name.
func (r *Request) Set(name string, value any) *Request {
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
	return r
}

// Append adds value to the string list stored under name.
func (r *Request) Append(name, value string) *Request {
	list, _ := r.values[name].([]string)
	return r.Set(name, append(list, value))
}

// Get returns the value stored under name.
func (r *Request) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Command returns the composer subcommand.
func (r *Request) Command() string {
	s, _ := r.values[ParamCommand].(string)
	return s
}

// Keys returns argument names in insertion order.
func (r *Request) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Args converts the request into a composer argv, subcommand first.
func (r *Request) Args() []string {
	args := []string{r.Command()}
	for _, name := range r.keys {
		if name == ParamCommand {
			continue
		}
		option := strings.HasPrefix(name, "-")
		switch v := r.values[name].(type) {
		case bool:
			if option && v {
				args = append(args, name)
			}
		case string:
			if option {
				args = append(args, name+"="+v)
			} else {
				args = append(args, v)
			}
		case []string:
			for _, item := range v {
				if option {
					args = append(args, name+"="+item)
				} else {
					args = append(args, item)
				}
			}
		}
	}
	return args
}

// MarshalJSON encodes the request as a JSON object in insertion order.
func (r *Request) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, name := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(name); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1) // Encode appends a newline
		buf.WriteByte(':')
		if err := enc.Encode(r.values[name]); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String returns the JSON form of the request.
func (r *Request) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return r.Command()
	}
	return string(data)
}
