package catalog

import "github.com/santhosh-tekuri/jsonschema/v5"

const blocksSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "integer", "minimum": 0},
      "name": {"type": "string"},
      "faces": {
        "type": "object",
        "additionalProperties": {"type": "string"}
      },
      "transparent": {"type": "boolean"}
    },
    "additionalProperties": false
  }
}`

const atlasSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "propertyNames": {"pattern": "^[0-9]+(_(px|nx|py|ny|pz|nz))?$"},
  "additionalProperties": {
    "type": "object",
    "required": ["left", "right", "top", "bottom"],
    "properties": {
      "left": {"type": "number"},
      "right": {"type": "number"},
      "top": {"type": "number"},
      "bottom": {"type": "number"}
    },
    "additionalProperties": false
  }
}`

var (
	blocksSchema = jsonschema.MustCompileString("blocks.schema.json", blocksSchemaJSON)
	atlasSchema  = jsonschema.MustCompileString("atlas.schema.json", atlasSchemaJSON)
)
