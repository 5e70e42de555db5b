package checks

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"rorcheck/internal/record"
	"rorcheck/internal/validator"
)

//go:embed record_schema.json
var recordSchemaJSON string

// Schema validates each tree document against the embedded record schema.
// It catches shape problems the field checks cannot see from the tabular
// side: wrong attribute types, unknown keys, missing required subtrees.
type Schema struct {
	validator.Base
	schema *jsonschema.Schema
}

// NewSchema builds the schema check. The embedded schema is trusted; a
// compile failure is a programming error.
func NewSchema() *Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("record.schema.json", strings.NewReader(recordSchemaJSON)); err != nil {
		panic(err)
	}
	schema := compiler.MustCompile("record.schema.json")
	return &Schema{
		Base: validator.Base{
			CheckName:    "schema",
			CheckFormats: []validator.Format{validator.FormatJSON},
			Filename:     "schema_errors.csv",
			Fields:       []string{"file", "pointer", "issue"},
		},
		schema: schema,
	}
}

func (c *Schema) Run(_ context.Context, vc *validator.Context, _ validator.Format) ([]validator.Row, error) {
	files, err := record.ListTreeFiles(vc.JSONDir)
	if err != nil {
		return nil, err
	}

	var findings []validator.Row
	for _, f := range files {
		base := filepath.Base(f)
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			findings = append(findings, validator.Row{
				"file": base, "pointer": "", "issue": fmt.Sprintf("not valid JSON: %v", err),
			})
			continue
		}
		err = c.schema.Validate(doc)
		if err == nil {
			continue
		}
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			findings = append(findings, validator.Row{"file": base, "pointer": "", "issue": err.Error()})
			continue
		}
		// Intermediate causes only group their children; the leaves name the
		// actual violations.
		for _, leaf := range leafCauses(ve) {
			findings = append(findings, validator.Row{
				"file":    base,
				"pointer": leaf.InstanceLocation,
				"issue":   leaf.Message,
			})
		}
	}
	return findings, nil
}

func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}
