package generate

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

const generatedSchemaURL = "mem:///generated.schema.json"

var typePatterns = map[FieldType]string{
	TypeString: `^[0-9a-z]{8}$`,
	TypeUUID:   `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`,
	TypeName:   `^[A-Z][a-z]+ [A-Z][a-z]+$`,
	TypeEmail:  `^[a-z]+[0-9]{1,2}@[a-z]+\.[a-z]+$`,
}

// Schema describes the output of Generate for fields as a draft 2020-12
// JSON Schema.
func Schema(fields []Field) *jsonvalue.Value {
	props := jsonvalue.NewObject()
	var required []*jsonvalue.Value
	for _, f := range named(fields) {
		props.Set(f.Name, fieldSchema(f.Type))
		required = append(required, jsonvalue.String(f.Name))
	}

	item := jsonvalue.NewObject()
	item.Set("type", jsonvalue.String("object"))
	item.Set("properties", jsonvalue.ObjectValue(props))
	item.Set("required", jsonvalue.Array(required...))
	item.Set("additionalProperties", jsonvalue.Bool(false))

	root := jsonvalue.NewObject()
	root.Set("$schema", jsonvalue.String("https://json-schema.org/draft/2020-12/schema"))
	root.Set("type", jsonvalue.String("array"))
	root.Set("minItems", jsonvalue.Int(1))
	root.Set("items", jsonvalue.ObjectValue(item))
	return jsonvalue.ObjectValue(root)
}

func fieldSchema(t FieldType) *jsonvalue.Value {
	s := jsonvalue.NewObject()
	switch t {
	case TypeNumber:
		s.Set("type", jsonvalue.String("integer"))
		s.Set("minimum", jsonvalue.Int(0))
		s.Set("maximum", jsonvalue.Int(999))
	case TypeBoolean:
		s.Set("type", jsonvalue.String("boolean"))
	case TypeString, TypeUUID, TypeName, TypeEmail:
		s.Set("type", jsonvalue.String("string"))
		s.Set("pattern", jsonvalue.String(typePatterns[t]))
		switch t {
		case TypeUUID:
			s.Set("format", jsonvalue.String("uuid"))
		case TypeEmail:
			s.Set("format", jsonvalue.String("email"))
		}
	default:
		s.Set("type", jsonvalue.String("null"))
	}
	return jsonvalue.ObjectValue(s)
}

// Check validates v against Schema(fields).
func Check(v *jsonvalue.Value, fields []Field) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	if err := compiler.AddResource(generatedSchemaURL, Schema(fields).Interface()); err != nil {
		return fmt.Errorf("adding generated schema: %w", err)
	}
	sch, err := compiler.Compile(generatedSchemaURL)
	if err != nil {
		return fmt.Errorf("compiling generated schema: %w", err)
	}
	if err := sch.Validate(v.Interface()); err != nil {
		return fmt.Errorf("generated data does not match its schema: %w", err)
	}
	return nil
}
