package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"count": {"type": "integer", "minimum": 0}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	assert.NoError(t, ValidateJSONString(testSchema, `{"name": "x", "count": 3}`))
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(testSchema, `{"count": -1}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Errors, 2) // missing name, negative count
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateJSONString_BrokenSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 42}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	docPath := filepath.Join(dir, "doc.json")

	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0o644))
	require.NoError(t, os.WriteFile(docPath, []byte(`{"name": "x"}`), 0o644))

	assert.NoError(t, ValidateJSON(schemaPath, docPath))

	require.NoError(t, os.WriteFile(docPath, []byte(`{}`), 0o644))
	assert.Error(t, ValidateJSON(schemaPath, docPath))
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0o644))

	err := ValidateJSON(schemaPath, filepath.Join(dir, "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON(filepath.Join(dir, "absent-schema.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolveSchemaPath(t *testing.T) {
	assert.Empty(t, ResolveSchemaPath("definitely/not/a/real/schema.json"))
}
