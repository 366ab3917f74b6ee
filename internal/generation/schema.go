package generation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaType is the JSON type of a schema node.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema declares the shape of a structured reply. It is translated to the
// provider's native schema type and to JSON Schema for validation.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
	Minimum     *float64
	Maximum     *float64
	// MinLength and MinItems apply when positive. Pattern is an unanchored regexp.
	MinLength int
	MinItems  int
	Pattern   string
}

// JSONSchema renders the schema as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if s.MinLength > 0 {
		out["minLength"] = s.MinLength
	}
	if s.MinItems > 0 {
		out["minItems"] = s.MinItems
	}
	if s.Pattern != "" {
		out["pattern"] = s.Pattern
	}
	return out
}

// Validate checks raw JSON against the schema.
func (s *Schema) Validate(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(s.JSONSchema()),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// directive is appended to the system instruction for structured calls.
func (s *Schema) directive() string {
	doc, err := json.Marshal(s.JSONSchema())
	if err != nil {
		doc = []byte("{}")
	}
	return "Respond with a single JSON object only, no prose or markdown, that satisfies this JSON Schema:\n" + string(doc)
}

// extractJSON trims markdown fences and any prose around the outermost object.
func extractJSON(text string) ([]byte, error) {
	content := strings.TrimSpace(text)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in reply")
	}
	return []byte(content[start : end+1]), nil
}

// decodeStructured validates text against schema and decodes it into out.
func decodeStructured(text string, schema *Schema, out any) error {
	raw, err := extractJSON(text)
	if err != nil {
		return err
	}
	if schema != nil {
		if err := schema.Validate(raw); err != nil {
			return err
		}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}
