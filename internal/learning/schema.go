package learning

import (
	"encoding/json"
	"fmt"
	"sync"

	invjsonschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const materialSchemaURL = "schema://learning_material.json"

var (
	materialSchemaOnce sync.Once
	materialSchemaDoc  map[string]any
	compiledSchema     *jsonschema.Schema
	compileErr         error
)

// reflectMaterialSchema derives the JSON schema of Material from its struct
// tags.
func reflectMaterialSchema() (map[string]any, error) {
	r := invjsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	raw, err := json.Marshal(r.Reflect(&Material{}))
	if err != nil {
		return nil, fmt.Errorf("marshal material schema: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse material schema: %w", err)
	}
	return doc, nil
}

func loadMaterialSchema() {
	materialSchemaDoc, compileErr = reflectMaterialSchema()
	if compileErr != nil {
		return
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(materialSchemaURL, materialSchemaDoc); err != nil {
		compileErr = fmt.Errorf("add resource: %w", err)
		return
	}
	compiledSchema, compileErr = c.Compile(materialSchemaURL)
}

// MaterialSchema returns the schema handed to providers that support
// structured output. Meta keywords are removed; the map is a fresh copy.
func MaterialSchema() map[string]any {
	materialSchemaOnce.Do(loadMaterialSchema)
	if materialSchemaDoc == nil {
		return nil
	}
	raw, _ := json.Marshal(materialSchemaDoc)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

// ValidateShape checks m against the Material schema.
func ValidateShape(m Material) error {
	materialSchemaOnce.Do(loadMaterialSchema)
	if compileErr != nil {
		return fmt.Errorf("compile material schema: %w", compileErr)
	}

	raw, err := json.Marshal(m.withDefaults())
	if err != nil {
		return fmt.Errorf("marshal material: %w", err)
	}
	var inst any
	if err := json.Unmarshal(raw, &inst); err != nil {
		return fmt.Errorf("parse material: %w", err)
	}
	if err := compiledSchema.Validate(inst); err != nil {
		return fmt.Errorf("material shape: %w", err)
	}
	return nil
}
