package providers

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor derives a structured-output contract from a Go type. Agents use
// this to ask for responses that unmarshal directly into their domain
// structs. The reflector inlines definitions and drops the $schema wrapper
// so the document can be embedded verbatim in provider requests.
func SchemaFor(name string, v any) (*StructuredSchema, error) {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	schema := reflector.Reflect(v)
	schema.Version = ""

	doc, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %s: %w", name, err)
	}

	return &StructuredSchema{
		Name:   name,
		Schema: doc,
		Strict: true,
	}, nil
}
