package domain

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/taxonomy"
)

// Vendor is a seller. IsApproved governs listing visibility and is independent
// of the verification lifecycle.
type Vendor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	City          string    `json:"city"`
	Specialties   []string  `json:"specialties"`
	WhatsApp      string    `json:"whatsapp"`
	Email         string    `json:"email"`
	Description   string    `json:"description"`
	IsApproved    bool      `json:"isApproved"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Verification is joined from the verifications collection on read.
	// It is stripped before the vendor record is persisted.
	Verification *Verification `json:"verification,omitempty"`

	Specialty string `json:"-"`
}

// UnmarshalJSON folds a legacy "specialty" field into Specialties.
func (v *Vendor) UnmarshalJSON(data []byte) error {
	type plain Vendor
	aux := struct {
		*plain
		Specialties json.RawMessage `json:"specialties"`
		Specialty   json.RawMessage `json:"specialty"`
	}{plain: (*plain)(v)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.Specialties = taxonomy.NormalizeRaw(aux.Specialties, aux.Specialty)
	v.Specialty = ""
	return nil
}

// Normalized returns a copy whose Specialties is always an array.
func (v Vendor) Normalized() Vendor {
	out := v
	out.Specialties = taxonomy.Normalize(v.Specialties, v.Specialty)
	out.Specialty = ""
	return out
}

// VerificationStatus returns the current status, Unverified when no record was joined.
func (v Vendor) VerificationStatus() VerificationStatus {
	if v.Verification == nil {
		return VerificationUnverified
	}
	return v.Verification.Status
}

type VendorInput struct {
	Name          string   `json:"name" validate:"required,min=2,max=150"`
	ContactPerson string   `json:"contactPerson" validate:"required,max=100"`
	City          string   `json:"city" validate:"required,city"`
	Specialties   []string `json:"specialties" validate:"omitempty,dive,specialty"`
	Specialty     string   `json:"specialty,omitempty" validate:"omitempty,specialty"`
	WhatsApp      string   `json:"whatsapp" validate:"required,whatsapp"`
	Email         string   `json:"email" validate:"required,email"`
	Description   string   `json:"description" validate:"max=5000"`
	IsApproved    bool     `json:"isApproved"`
}

func NewVendor(id string, in VendorInput, now time.Time) Vendor {
	v := Vendor{
		ID:            id,
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		City:          in.City,
		Specialties:   in.Specialties,
		WhatsApp:      in.WhatsApp,
		Email:         in.Email,
		Description:   in.Description,
		IsApproved:    in.IsApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
		Specialty:     in.Specialty,
	}
	return v.Normalized()
}

// VendorPatch is a partial vendor update. Approval is changed through its own operation.
type VendorPatch struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	ContactPerson *string  `json:"contactPerson,omitempty"`
	City          *string  `json:"city,omitempty" validate:"omitempty,city"`
	Specialties   []string `json:"specialties,omitempty" validate:"omitempty,dive,specialty"`
	Specialty     *string  `json:"specialty,omitempty" validate:"omitempty,specialty"`
	WhatsApp      *string  `json:"whatsapp,omitempty" validate:"omitempty,whatsapp"`
	Email         *string  `json:"email,omitempty" validate:"omitempty,email"`
	Description   *string  `json:"description,omitempty"`
}

func (p VendorPatch) ApplyTo(v *Vendor) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.ContactPerson != nil {
		v.ContactPerson = *p.ContactPerson
	}
	if p.City != nil {
		v.City = *p.City
	}
	if p.Specialties != nil || p.Specialty != nil {
		v.Specialties = taxonomy.Normalize(slices.Clone(p.Specialties), deref(p.Specialty))
	}
	if p.WhatsApp != nil {
		v.WhatsApp = *p.WhatsApp
	}
	if p.Email != nil {
		v.Email = *p.Email
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
}
