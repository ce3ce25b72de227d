package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "sjsage522/jobharvester/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "keywords.yaml", `
technical:
  python: true
  spark: false
  airflow: true
soft:
  autonomie: true
`)

	tax, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"soft", "technical"}, tax.CategoryNames())
	assert.Equal(t, []Keyword{
		{Name: "airflow", Mastered: true},
		{Name: "python", Mastered: true},
		{Name: "spark", Mastered: false},
	}, tax.Categories[1].Keywords)
}

func TestLoadJSON5(t *testing.T) {
	path := writeFile(t, "keywords.json5", `{
  // comments are allowed
  technical: {sql: true, scala: false,},
}`)

	tax, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tax.Categories, 1)
	assert.Equal(t, "technical", tax.Categories[0].Name)
	assert.Equal(t, []Keyword{{Name: "scala"}, {Name: "sql", Mastered: true}}, tax.Categories[0].Keywords)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))

	_, err = Load(writeFile(t, "keywords.toml", "x = 1"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))

	_, err = Load(writeFile(t, "keywords.yaml", "technical: [not, a, map]"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
}

func TestNilTaxonomy(t *testing.T) {
	var tax *Taxonomy
	assert.Nil(t, tax.CategoryNames())
}
