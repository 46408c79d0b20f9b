package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultWhenNoPath(t *testing.T) {
	ref, err := Load("")
	require.NoError(t, err)
	assert.True(t, ref.IsSpecialty("cardiology"))
	assert.True(t, ref.IsSpecialty("General Surgery"))
	assert.True(t, ref.IsCategory("Imaging Equipment"))
	assert.True(t, ref.IsCity("Lahore"))
	assert.False(t, ref.IsCity("Atlantis"))
	assert.Contains(t, ref.Subcategories("imaging"), "Ultrasound")
	assert.Nil(t, ref.Subcategories("unknown"))
}

func TestLoad_YAMLOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	content := `
clinical_specialties:
  - id: cardiology
    name: Cardiology
categories:
  - id: imaging
    name: Imaging
    subcategories: [MRI]
cities: [Lahore, Karachi]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	ref, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lahore", "Karachi"}, ref.Cities)
	assert.Equal(t, []string{"Imaging"}, ref.CategoryNames())
	assert.Equal(t, []string{"MRI"}, ref.Subcategories("Imaging"))
	// surgical specialties were not in the file
	assert.True(t, ref.IsSpecialty("Neurosurgery"))
	assert.False(t, ref.IsSpecialty("Radiology"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAllSpecialties_Order(t *testing.T) {
	ref := &Reference{
		ClinicalSpecialties: []Term{{ID: "a", Name: "A"}},
		SurgicalSpecialties: []Term{{ID: "b", Name: "B"}},
	}
	assert.Equal(t, []string{"A", "B"}, ref.AllSpecialties())
}
