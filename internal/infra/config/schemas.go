package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/v1/profiles.schema.json
var profilesSchemaJSON []byte

const profilesSchemaURL = "https://reactor.de/certprofile/schemas/v1/profiles.schema.json"

var profilesSchema *jsonschema.Schema

func init() {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(profilesSchemaJSON))
	if err != nil {
		panic("failed to parse embedded profiles schema: " + err.Error())
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(profilesSchemaURL, doc); err != nil {
		panic("failed to add embedded profiles schema: " + err.Error())
	}

	profilesSchema, err = c.Compile(profilesSchemaURL)
	if err != nil {
		panic("failed to compile embedded profiles schema: " + err.Error())
	}
}

func validateProfilesConfig(data []byte) error {
	// Convert YAML to JSON for schema validation
	var yamlData interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	jsonData, err := json.Marshal(yamlData)
	if err != nil {
		return fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to decode converted JSON: %w", err)
	}

	if err := profilesSchema.Validate(inst); err != nil {
		return fmt.Errorf("configuration validation failed:\n%w", err)
	}

	return nil
}
