package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "readme_config.schema.json"

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["object", "null"],
  "properties": {
    "categories": {
      "type": ["object", "null"],
      "additionalProperties": {
        "type": "object",
        "properties": {
          "pattern": {"type": "string"},
          "icon": {"type": "string"},
          "title": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "ignore_patterns": {
      "type": ["array", "null"],
      "items": {"type": "string"}
    },
    "doc_options": {
      "type": ["object", "null"],
      "properties": {
        "language": {"type": "string"},
        "include_private_methods": {"type": "boolean"},
        "include_module_doc": {"type": "boolean"},
        "include_parameters": {"type": "boolean"},
        "include_return_type": {"type": "boolean"},
        "include_examples": {"type": "boolean"},
        "max_doc_length": {"type": "integer", "minimum": 0},
        "watch_mode": {"type": "boolean"},
        "watch_delay": {"type": "number", "minimum": 0}
      }
    },
    "style": {
      "type": ["object", "null"],
      "properties": {
        "use_emojis": {"type": "boolean"},
        "show_line_numbers": {"type": "boolean"},
        "show_source_link": {"type": "boolean"}
      }
    },
    "badges": {
      "type": ["object", "null"],
      "properties": {
        "show": {"type": "boolean"},
        "types": {"type": ["array", "null"], "items": {"type": "string"}},
        "version": {"type": "string"},
        "coverage": {"type": "string"}
      }
    },
    "templates": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    }
  }
}`

// TemplateKeys lists the placeholders each named template slot understands.
var TemplateKeys = map[string][]string{
	"module_header":   {"icon", "title", "description", "badges"},
	"class_header":    {"class_name", "class_description", "doc_string", "badges"},
	"function_header": {"function_name", "function_description", "parameters", "returns", "example", "badges"},
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, schemaJSON)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks raw YAML against the config schema. The YAML tree
// is round-tripped through JSON so the validator sees JSON value types.
func validateDocument(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var value interface{}
	if err := json.Unmarshal(encoded, &value); err != nil {
		return err
	}

	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}
	return schema.Validate(value)
}

var placeholderRe = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// TemplateWarnings reports template slots and placeholders the formatter
// will not fill. They are not errors: unknown slots are ignored and unknown
// placeholders are emitted verbatim.
func (c *Config) TemplateWarnings() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []string
	for _, name := range names {
		keys, ok := TemplateKeys[name]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown template %q is ignored", name))
			continue
		}
		known := make(map[string]bool, len(keys))
		for _, k := range keys {
			known[k] = true
		}
		for _, m := range placeholderRe.FindAllStringSubmatch(c.Templates[name], -1) {
			if m[1] != "" && !known[m[1]] {
				warnings = append(warnings, fmt.Sprintf("template %q: unknown placeholder {%s}", name, m[1]))
			}
		}
	}
	return warnings
}
