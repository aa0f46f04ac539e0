package servicedef

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed student.schema.json
	studentSchemaJSON string

	//go:embed search.schema.json
	searchSchemaJSON string
)

const (
	studentSchemaURL = "https://studentapi.example/schemas/student.schema.json"
	searchSchemaURL  = "https://studentapi.example/schemas/search.schema.json"
)

var (
	schemasOnce   sync.Once
	studentSchema *jsonschema.Schema
	searchSchema  *jsonschema.Schema
	schemasErr    error
)

func loadSchemas() error {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(studentSchemaURL, strings.NewReader(studentSchemaJSON)); err != nil {
			schemasErr = fmt.Errorf("add student schema: %w", err)
			return
		}
		if err := compiler.AddResource(searchSchemaURL, strings.NewReader(searchSchemaJSON)); err != nil {
			schemasErr = fmt.Errorf("add search schema: %w", err)
			return
		}
		if studentSchema, schemasErr = compiler.Compile(studentSchemaURL); schemasErr != nil {
			return
		}
		searchSchema, schemasErr = compiler.Compile(searchSchemaURL)
	})
	return schemasErr
}

// ValidateStudentJSON checks a serialized student record against the record schema.
func ValidateStudentJSON(raw []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}
	return validateAgainstSchema(studentSchema, raw)
}

// ValidateSearchResponseJSON checks a serialized search response against the search schema.
func ValidateSearchResponseJSON(raw []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}
	return validateAgainstSchema(searchSchema, raw)
}

func validateAgainstSchema(schema *jsonschema.Schema, raw []byte) error {
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return schema.Validate(payload)
}
