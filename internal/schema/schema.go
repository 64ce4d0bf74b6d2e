// Package schema reflects JSON Schemas from Go types and validates raw JSON
// documents against them.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const baseID = "https://lorekeeper.dev/schemas/"

// ID returns the schema $id used for name.
func ID(name string) string {
	return baseID + name + ".schema.json"
}

// Generate reflects v into a JSON Schema document. Unknown properties are
// allowed so that producers may add fields without breaking older readers.
func Generate(name string, v any) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(v)
	s.ID = jsonschema.ID(ID(name))

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema %s: %w", name, err)
	}
	return data, nil
}

// Compile generates and compiles the schema for v.
func Compile(name string, v any) (*jschema.Schema, error) {
	data, err := Generate(name, v)
	if err != nil {
		return nil, err
	}

	doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", name, err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource(ID(name), doc); err != nil {
		return nil, fmt.Errorf("adding schema resource %s: %w", name, err)
	}
	sch, err := c.Compile(ID(name))
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return sch, nil
}

// Validate checks raw JSON against sch.
func Validate(sch *jschema.Schema, raw []byte) error {
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	return ValidateValue(sch, doc)
}

// ValidateValue checks an already decoded JSON value against sch.
func ValidateValue(sch *jschema.Schema, doc any) error {
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// FormatError trims the wrapping prefix from a validation error for display.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), "schema validation failed: ")
}
