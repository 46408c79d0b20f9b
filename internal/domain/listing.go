package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/taxonomy"
)

// Condition is the physical condition of a listed piece of equipment.
type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsed        Condition = "Used"
	ConditionRefurbished Condition = "Refurbished"
)

// IsValid checks if the Condition is one of the defined constants.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRefurbished:
		return true
	}
	return false
}

// Listing is a single piece of equipment offered for sale.
type Listing struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Specialties  []string  `json:"specialties"`
	Categories   []string  `json:"categories"`
	City         string    `json:"city"`
	Condition    Condition `json:"condition"`
	Price        int64     `json:"price"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	WhatsApp     string    `json:"whatsapp"`
	IsFeatured   bool      `json:"isFeatured"`
	VendorID     *string   `json:"vendorId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Legacy single-valued taxonomy. Accepted on input, folded into the
	// arrays by Normalized and never persisted.
	Specialty string `json:"-"`
	Category  string `json:"-"`
}

// UnmarshalJSON decodes a persisted listing, folding legacy "specialty" and
// "category" fields into the array fields.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type plain Listing
	aux := struct {
		*plain
		Specialties json.RawMessage `json:"specialties"`
		Categories  json.RawMessage `json:"categories"`
		Specialty   json.RawMessage `json:"specialty"`
		Category    json.RawMessage `json:"category"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.Specialties = taxonomy.NormalizeRaw(aux.Specialties, aux.Specialty)
	l.Categories = taxonomy.NormalizeRaw(aux.Categories, aux.Category)
	l.Specialty, l.Category = "", ""
	return nil
}

// Normalized returns a copy whose taxonomy fields are always arrays.
// The receiver is left untouched.
func (l Listing) Normalized() Listing {
	out := l
	out.Specialties = taxonomy.Normalize(l.Specialties, l.Specialty)
	out.Categories = taxonomy.Normalize(l.Categories, l.Category)
	out.Specialty, out.Category = "", ""
	out.Images = slices.Clone(l.Images)
	return out
}

// BelongsTo reports whether the listing references the given vendor.
func (l Listing) BelongsTo(vendorID string) bool {
	return l.VendorID != nil && *l.VendorID == vendorID
}

// ListingInput is the data accepted by the catalog create operation.
type ListingInput struct {
	Title        string    `json:"title" validate:"required,min=3,max=200"`
	Specialties  []string  `json:"specialties" validate:"omitempty,dive,specialty"`
	Specialty    string    `json:"specialty,omitempty" validate:"omitempty,specialty"`
	Categories   []string  `json:"categories" validate:"omitempty,dive,category"`
	Category     string    `json:"category,omitempty" validate:"omitempty,category"`
	City         string    `json:"city" validate:"required,city"`
	Condition    Condition `json:"condition" validate:"required,oneof=New Used Refurbished"`
	Price        int64     `json:"price" validate:"gte=0"`
	Manufacturer string    `json:"manufacturer" validate:"max=100"`
	Model        string    `json:"model" validate:"max=100"`
	Description  string    `json:"description" validate:"max=5000"`
	Images       []string  `json:"images" validate:"required,min=1,dive,required"`
	WhatsApp     string    `json:"whatsapp" validate:"required,whatsapp"`
	IsFeatured   bool      `json:"isFeatured"`
	VendorID     *string   `json:"vendorId,omitempty"`
}

// NewListing builds a listing from input with a fresh identity and timestamps.
func NewListing(id string, in ListingInput, now time.Time) Listing {
	l := Listing{
		ID:           id,
		Title:        in.Title,
		Specialties:  in.Specialties,
		Categories:   in.Categories,
		City:         in.City,
		Condition:    in.Condition,
		Price:        in.Price,
		Manufacturer: in.Manufacturer,
		Model:        in.Model,
		Description:  in.Description,
		Images:       in.Images,
		WhatsApp:     in.WhatsApp,
		IsFeatured:   in.IsFeatured,
		VendorID:     in.VendorID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Specialty:    in.Specialty,
		Category:     in.Category,
	}
	return l.Normalized()
}

// ListingPatch is a partial update. Nil fields are left unchanged.
type ListingPatch struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Specialties  []string   `json:"specialties,omitempty" validate:"omitempty,dive,specialty"`
	Specialty    *string    `json:"specialty,omitempty" validate:"omitempty,specialty"`
	Categories   []string   `json:"categories,omitempty" validate:"omitempty,dive,category"`
	Category     *string    `json:"category,omitempty" validate:"omitempty,category"`
	City         *string    `json:"city,omitempty" validate:"omitempty,city"`
	Condition    *Condition `json:"condition,omitempty" validate:"omitempty,oneof=New Used Refurbished"`
	Price        *int64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Manufacturer *string    `json:"manufacturer,omitempty"`
	Model        *string    `json:"model,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Images       []string   `json:"images,omitempty" validate:"omitempty,dive,required"`
	WhatsApp     *string    `json:"whatsapp,omitempty" validate:"omitempty,whatsapp"`
	IsFeatured   *bool      `json:"isFeatured,omitempty"`
	// VendorID set to an empty string detaches the listing from its vendor.
	VendorID *string `json:"vendorId,omitempty"`
}

// ApplyTo merges the patch into l. Taxonomy arrays are re-derived only when
// the patch supplies them; otherwise the existing arrays are kept.
func (p ListingPatch) ApplyTo(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Specialties != nil || p.Specialty != nil {
		l.Specialties = taxonomy.Normalize(p.Specialties, deref(p.Specialty))
	}
	if p.Categories != nil || p.Category != nil {
		l.Categories = taxonomy.Normalize(p.Categories, deref(p.Category))
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Condition != nil {
		l.Condition = *p.Condition
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Manufacturer != nil {
		l.Manufacturer = *p.Manufacturer
	}
	if p.Model != nil {
		l.Model = *p.Model
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Images != nil {
		l.Images = slices.Clone(p.Images)
	}
	if p.WhatsApp != nil {
		l.WhatsApp = *p.WhatsApp
	}
	if p.IsFeatured != nil {
		l.IsFeatured = *p.IsFeatured
	}
	if p.VendorID != nil {
		if *p.VendorID == "" {
			l.VendorID = nil
		} else {
			id := *p.VendorID
			l.VendorID = &id
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
