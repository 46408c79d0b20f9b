package taxonomy

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Term is one controlled-vocabulary entry.
type Term struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// CategoryTerm is an equipment category with optional subcategory names.
type CategoryTerm struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Subcategories []string `yaml:"subcategories" json:"subcategories,omitempty"`
}

// Reference is the read-only vocabulary for specialties, categories and cities.
// It is static configuration and never persisted.
type Reference struct {
	ClinicalSpecialties []Term         `yaml:"clinical_specialties" json:"clinicalSpecialties"`
	SurgicalSpecialties []Term         `yaml:"surgical_specialties" json:"surgicalSpecialties"`
	Categories          []CategoryTerm `yaml:"categories" json:"categories"`
	Cities              []string       `yaml:"cities" json:"cities"`
}

// Load returns the built-in reference taxonomy, or the one described by the YAML file at
// path when path is set. Sections missing from the file fall back to the defaults.
func Load(path string) (*Reference, error) {
	def := Default()
	if path == "" {
		return def, nil
	}

	var ref Reference
	if err := cleanenv.ReadConfig(path, &ref); err != nil {
		return nil, fmt.Errorf("read taxonomy file %s: %w", path, err)
	}
	if len(ref.ClinicalSpecialties) == 0 {
		ref.ClinicalSpecialties = def.ClinicalSpecialties
	}
	if len(ref.SurgicalSpecialties) == 0 {
		ref.SurgicalSpecialties = def.SurgicalSpecialties
	}
	if len(ref.Categories) == 0 {
		ref.Categories = def.Categories
	}
	if len(ref.Cities) == 0 {
		ref.Cities = def.Cities
	}
	return &ref, nil
}

// AllSpecialties returns clinical then surgical specialty names.
func (r *Reference) AllSpecialties() []string {
	out := make([]string, 0, len(r.ClinicalSpecialties)+len(r.SurgicalSpecialties))
	for _, t := range r.ClinicalSpecialties {
		out = append(out, t.Name)
	}
	for _, t := range r.SurgicalSpecialties {
		out = append(out, t.Name)
	}
	return out
}

// CategoryNames returns the display names of all equipment categories.
func (r *Reference) CategoryNames() []string {
	out := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		out = append(out, c.Name)
	}
	return out
}

func (r *Reference) IsSpecialty(name string) bool {
	return containsFold(r.AllSpecialties(), name)
}

func (r *Reference) IsCategory(name string) bool {
	return containsFold(r.CategoryNames(), name)
}

func (r *Reference) IsCity(name string) bool {
	return containsFold(r.Cities, name)
}

// Subcategories returns the subcategory names of the named category, or nil.
func (r *Reference) Subcategories(category string) []string {
	for _, c := range r.Categories {
		if strings.EqualFold(c.Name, category) || strings.EqualFold(c.ID, category) {
			return c.Subcategories
		}
	}
	return nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
