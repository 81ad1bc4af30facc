package composer

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRequestArgs(t *testing.T) {
	tests := []struct {
		name     string
		req      *Request
		expected []string
	}{
		{
			name:     "update",
			req:      NewRequest(CommandUpdate),
			expected: []string{"update"},
		},
		{
			name: "require",
			req: NewRequest(CommandRequire).
				Set(ParamNoUpdate, true).
				Append(ParamPackages, "a/b:1.0").
				Append(ParamPackages, "c/d:~2.0"),
			expected: []string{"require", "--no-update", "a/b:1.0", "c/d:~2.0"},
		},
		{
			name: "show json",
			req: NewRequest(CommandShow).
				Set(ParamAll, true).
				Set(ParamFormat, "json").
				Set(ParamPackage, "a/b"),
			expected: []string{"show", "--all", "--format=json", "a/b"},
		},
		{
			name:     "false flag omitted",
			req:      NewRequest(CommandRequire).Set(ParamNoUpdate, false),
			expected: []string{"require"},
		},
		{
			name:     "repeated option",
			req:      NewRequest(CommandUpdate).Set("--with", []string{"a/b", "c/d"}),
			expected: []string{"update", "--with=a/b", "--with=c/d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Args(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Args() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRequestSetKeepsPosition(t *testing.T) {
	req := NewRequest(CommandShow).Set(ParamAll, false).Set(ParamPackage, "a/b").Set(ParamAll, true)

	want := []string{ParamCommand, ParamAll, ParamPackage}
	if got := req.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if v, _ := req.Get(ParamAll); v != true {
		t.Errorf("Get(--all) = %v, want true", v)
	}
}

func TestRequestString(t *testing.T) {
	req := NewRequest(CommandRequire).
		Set(ParamNoUpdate, true).
		Append(ParamPackages, "magento/product-community-edition:2.0.0")

	want := `{"command":"require","--no-update":true,"packages":["magento/product-community-edition:2.0.0"]}`
	if got := req.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	if string(data) != want {
		t.Errorf("json.Marshal() = %s, want %s", data, want)
	}
}

func TestRequestCommand(t *testing.T) {
	if got := NewRequest(CommandShow).Command(); got != "show" {
		t.Errorf("Command() = %q, want show", got)
	}
}
