// Package validation provides JSON-Schema validation of configuration
// documents (JSON or YAML) plus small scalar coercion helpers.
package validation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"
)

const schemaResource = "schema.json"

// Schema is a compiled JSON Schema ready to validate instances.
type Schema struct {
	schema *jsonschema.Schema
}

// CompileJSON compiles a JSON Schema document from JSON bytes.
func CompileJSON(data []byte) (*Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("registering schema: %w", err)
	}
	s, err := c.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// CompileYAML compiles a JSON Schema document written as YAML.
func CompileYAML(data []byte) (*Schema, error) {
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("converting schema from yaml: %w", err)
	}
	return CompileJSON(j)
}

// Validate checks a decoded instance value against the schema.
func (s *Schema) Validate(instance any) error {
	return s.schema.Validate(instance)
}

// ValidateJSON checks a JSON document against the schema.
func (s *Schema) ValidateJSON(data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	return s.schema.Validate(inst)
}

// ValidateYAML checks a YAML document against the schema.
func (s *Schema) ValidateYAML(data []byte) error {
	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("converting document from yaml: %w", err)
	}
	return s.ValidateJSON(j)
}

// ParseBool interprets common textual boolean spellings: y, yes, true,
// on, 1 and n, no, false, off, 0, case-insensitively. Anything else is an
// error.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "on", "1":
		return true, nil
	case "n", "no", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a valid boolean value", v)
	}
}

// StringList coerces a scalar-or-list config value into a string slice:
// a single string becomes a one-element list, []string passes through,
// and []any is accepted when every element is a string.
func StringList(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return val, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string list element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list of strings, got %T", v)
	}
}
