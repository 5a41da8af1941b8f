package visualizer

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://paramrelay.local/schema/visualizer-data.json"

const schemaSource = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["inputLevel", "outputLevel", "rippleBands", "lfoValues"],
  "properties": {
    "inputLevel":  {"type": "number", "minimum": 0},
    "outputLevel": {"type": "number", "minimum": 0},
    "rippleBands": {
      "type": "array",
      "items": {"type": "number"},
      "minItems": 16,
      "maxItems": 16
    },
    "lfoValues": {
      "type": "array",
      "items": {"type": "number"},
      "minItems": 4,
      "maxItems": 4
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// payloadSchema compiles the embedded schema once. The source is a
// constant, so a compile failure is a programming error.
func payloadSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
			panic("visualizer: add schema: " + err.Error())
		}
		schema = compiler.MustCompile(schemaURL)
	})
	return schema
}
