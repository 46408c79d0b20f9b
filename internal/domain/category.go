package domain

import (
	"slices"
	"time"
)

// Category is an admin-managed equipment category record.
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Subcategories []string  `json:"subcategories"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CategoryInput struct {
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Subcategories []string `json:"subcategories" validate:"omitempty,dive,required,max=100"`
}

type CategoryPatch struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Subcategories []string `json:"subcategories,omitempty" validate:"omitempty,dive,required,max=100"`
}

func (p CategoryPatch) ApplyTo(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Subcategories != nil {
		c.Subcategories = slices.Clone(p.Subcategories)
	}
}
