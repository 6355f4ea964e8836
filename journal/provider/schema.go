package provider

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects T into a JSON schema for OpenAI strict mode.
//
// Strict mode only guarantees fields that are listed as required, so every
// property of every object is marked required and objects are closed. For
// emotionScores this is what makes all eleven labels present in each reply.
// Required names are sorted so identical types produce identical request bodies.
func GenerateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema, err := schemaToMap(reflector.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("schema for %T: %v", v, err))
	}
	closeObjects(schema)
	return schema
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// closeObjects walks properties and array items, closing each object and
// requiring all of its properties.
func closeObjects(node map[string]interface{}) {
	props, _ := node["properties"].(map[string]interface{})
	if t, _ := node["type"].(string); t == "object" {
		node["additionalProperties"] = false
		if len(props) > 0 {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			node["required"] = required
		}
	}
	for _, p := range props {
		if child, ok := p.(map[string]interface{}); ok {
			closeObjects(child)
		}
	}
	if items, ok := node["items"].(map[string]interface{}); ok {
		closeObjects(items)
	}
}
