// Package schema validates ingested run documents before they are persisted.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// runSchema describes the minimum shape of an ingested benchmark run. The
// scenario records themselves stay opaque beyond being objects; the generator
// owns their shape.
const runSchema = `{
  "type": "object",
  "required": ["domainId", "scenarios"],
  "properties": {
    "id": {"type": "string"},
    "domainId": {"type": "string", "minLength": 1},
    "scenarios": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "sceneId": {"type": "string"},
          "twinId": {"type": "string"}
        }
      }
    },
    "useNarrativeDescriptions": {"type": "boolean"},
    "narrativeModel": {"type": "string"},
    "created": {"type": "string"}
  }
}`

var runSchemaLoader = gojsonschema.NewStringLoader(runSchema)

// ValidateRunDocument checks a raw run document against the run schema and
// returns a single error listing every violation.
func ValidateRunDocument(raw []byte) error {
	result, err := gojsonschema.Validate(runSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("run document failed validation: %s", strings.Join(details, "; "))
}
