// Package validation checks form input before it reaches the usecases and
// reports problems as a field to message map.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/query"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/taxonomy"
)

// FieldErrors maps a JSON field name to a human readable message.
// A nil or empty map means the input is valid.
type FieldErrors map[string]string

func (f FieldErrors) Valid() bool { return len(f) == 0 }

func (f FieldErrors) add(field, msg string) FieldErrors {
	if f == nil {
		f = FieldErrors{}
	}
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
	return f
}

var whatsappPattern = regexp.MustCompile(`^[0-9]{10,15}$`)

type Validator struct {
	validate *validator.Validate
	ref      *taxonomy.Reference
}

// New builds a validator whose specialty, category and city tags check
// against ref.
func New(ref *taxonomy.Reference) *Validator {
	v := &Validator{validate: validator.New(), ref: ref}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v.validate, "whatsapp", func(fl validator.FieldLevel) bool {
		return whatsappPattern.MatchString(fl.Field().String())
	})
	mustRegister(v.validate, "specialty", func(fl validator.FieldLevel) bool {
		return v.ref.IsSpecialty(fl.Field().String())
	})
	mustRegister(v.validate, "category", func(fl validator.FieldLevel) bool {
		return v.ref.IsCategory(fl.Field().String())
	})
	mustRegister(v.validate, "city", func(fl validator.FieldLevel) bool {
		return v.ref.IsCity(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates s by its validate tags.
func (v *Validator) Struct(s any) FieldErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	var out FieldErrors
	for _, fe := range verrs {
		out = out.add(fe.Field(), message(fe))
	}
	return out
}

func (v *Validator) Listing(in domain.ListingInput) FieldErrors {
	out := v.Struct(in)
	if len(taxonomy.Normalize(in.Specialties, in.Specialty)) == 0 {
		out = out.add("specialties", "at least one specialty is required")
	}
	return out
}

func (v *Validator) ListingPatch(p domain.ListingPatch) FieldErrors {
	out := v.Struct(p)
	if p.Images != nil && len(p.Images) == 0 {
		out = out.add("images", "at least one image is required")
	}
	if p.Specialties != nil && len(p.Specialties) == 0 && p.Specialty == nil {
		out = out.add("specialties", "at least one specialty is required")
	}
	return out
}

func (v *Validator) Vendor(in domain.VendorInput) FieldErrors { return v.Struct(in) }

func (v *Validator) VendorPatch(p domain.VendorPatch) FieldErrors { return v.Struct(p) }

func (v *Validator) Review(in domain.ReviewInput) FieldErrors { return v.Struct(in) }

func (v *Validator) SignUp(in domain.SignUpInput) FieldErrors { return v.Struct(in) }

func (v *Validator) Inquiry(in domain.InquiryInput) FieldErrors { return v.Struct(in) }

func (v *Validator) Category(in domain.CategoryInput) FieldErrors { return v.Struct(in) }

// Filter checks price bounds and the condition of a search filter.
func (v *Validator) Filter(f query.Filter) FieldErrors {
	var out FieldErrors
	if f.MinPrice != nil && *f.MinPrice < 0 {
		out = out.add("minPrice", "minPrice must not be negative")
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		out = out.add("maxPrice", "maxPrice must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		out = out.add("minPrice", "minPrice must be less than or equal to maxPrice")
	}
	if f.Condition != "" && !f.Condition.IsValid() {
		out = out.add("condition", "condition must be one of: New Used Refurbished")
	}
	return out
}

// Quantity checks a cart quantity.
func (v *Validator) Quantity(qty int) FieldErrors {
	if qty < 1 {
		return FieldErrors{"quantity": "quantity must be at least 1"}
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "whatsapp":
		return fmt.Sprintf("%s must be 10 to 15 digits", field)
	case "specialty":
		return fmt.Sprintf("%q is not a known specialty", fe.Value())
	case "category":
		return fmt.Sprintf("%q is not a known category", fe.Value())
	case "city":
		return fmt.Sprintf("%q is not a supported city", fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isCollection(fe.Kind()) {
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}
