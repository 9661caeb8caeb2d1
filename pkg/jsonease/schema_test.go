package jsonease

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iilei/jsonease/pkg/jsonvalue"
)

const personSchema = `{
  // comments are allowed in schemas
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer"},
  },
}`

func TestValidateSchema(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateSchema(`{"name":"ada","age":36}`, personSchema, SchemaOptions{}))
	})

	t.Run("violations are sorted by path", func(t *testing.T) {
		err := ValidateSchema(`{"age":"old"}`, personSchema, SchemaOptions{SchemaName: "person.json"})
		require.Error(t, err)

		var se *SchemaError
		require.True(t, errors.As(err, &se))
		require.Equal(t, 2, se.Context.ErrorCount)
		assert.Equal(t, "", se.Context.Errors[0].DocumentPath)
		assert.Contains(t, se.Context.Errors[0].Message, "name")
		assert.Equal(t, "/age", se.Context.Errors[1].DocumentPath)
		assert.Equal(t, `"old"`, se.Context.Errors[1].Value)
		assert.Contains(t, se.Error(), "2 validation error(s) found:")
		assert.Equal(t, "person.json", se.Context.SchemaFile)

		d := se.Diagnosis()
		assert.Equal(t, KindSchema, d.Kind)
		assert.Nil(t, d.Position)
	})

	t.Run("named template", func(t *testing.T) {
		err := ValidateSchema(`{"name":1}`, personSchema, SchemaOptions{Template: "with_path"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/name: ")
	})

	t.Run("inline template", func(t *testing.T) {
		err := ValidateSchema(`{}`, personSchema, SchemaOptions{Template: "{{.ErrorCount}} problem(s)"})
		require.Error(t, err)
		assert.Equal(t, "1 problem(s)", err.Error())
	})

	t.Run("syntax error in document", func(t *testing.T) {
		err := ValidateSchema(`{"name":"x",}`, personSchema, SchemaOptions{})
		var d *Diagnosis
		require.True(t, errors.As(err, &d))
		assert.Equal(t, KindSyntax, d.Kind)
	})

	t.Run("unknown draft", func(t *testing.T) {
		err := ValidateSchema(`{}`, personSchema, SchemaOptions{Version: "draft-99"})
		assert.ErrorContains(t, err, "unsupported JSON Schema version")
	})

	t.Run("broken template", func(t *testing.T) {
		err := ValidateSchema(`{}`, personSchema, SchemaOptions{Template: "{{.Nope"})
		assert.ErrorContains(t, err, "template parsing failed")
	})
}

func TestValidateSchemaValue(t *testing.T) {
	schema, err := jsonvalue.ParseYAML([]byte("type: object\nrequired: [id]\n"))
	require.NoError(t, err)

	assert.NoError(t, ValidateSchemaValue(`{"id":1}`, schema, SchemaOptions{}))

	err = ValidateSchemaValue(`{}`, schema, SchemaOptions{Template: "simple"})
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Context.ErrorCount)
}

func TestDraftForVersion(t *testing.T) {
	for _, v := range []string{"", "draft-04", "draft-06", "draft-07", "draft/2019-09", "draft/2020-12"} {
		d, err := DraftForVersion(v)
		require.NoError(t, err, v)
		assert.NotNil(t, d)
	}
}

func TestResolveTemplate(t *testing.T) {
	assert.Equal(t, CommonErrorTemplates["detailed"], ResolveTemplate(""))
	assert.Equal(t, CommonErrorTemplates["simple"], ResolveTemplate("simple"))
	assert.Equal(t, "{{.FullMessage}}!", ResolveTemplate("{{.FullMessage}}!"))
}

func TestInstancePointer(t *testing.T) {
	assert.Equal(t, "", instancePointer(nil))
	assert.Equal(t, "/a/0", instancePointer([]string{"a", "0"}))
	assert.Equal(t, "/a~1b/c~0d", instancePointer([]string{"a/b", "c~d"}))
}
