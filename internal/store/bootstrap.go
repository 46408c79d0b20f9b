package store

import (
	"time"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/taxonomy"
)

// legacyListing is the record shape written before listings carried taxonomy
// arrays. A few bootstrap records keep it so the normalizer is exercised on
// real reads.
type legacyListing struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Specialty    string           `json:"specialty"`
	Category     string           `json:"category"`
	City         string           `json:"city"`
	Condition    domain.Condition `json:"condition"`
	Price        int64            `json:"price"`
	Manufacturer string           `json:"manufacturer"`
	Model        string           `json:"model"`
	Description  string           `json:"description"`
	Images       []string         `json:"images"`
	WhatsApp     string           `json:"whatsapp"`
	IsFeatured   bool             `json:"isFeatured"`
	VendorID     *string          `json:"vendorId,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// BootstrapDataset returns the sample vendors, listings and categories a fresh
// store starts with.
func BootstrapDataset() Dataset {
	base := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	day := func(n int) time.Time { return base.AddDate(0, 0, n) }
	ref := func(s string) *string { return &s }

	vendors := []domain.Vendor{
		{
			ID: "vendor-medequip-lahore", Name: "MedEquip Solutions", ContactPerson: "Ali Raza",
			City: "Lahore", Specialties: []string{"Cardiology", "Radiology"},
			WhatsApp: "923001234567", Email: "sales@medequip.pk",
			Description: "Imaging and cardiac equipment supplier serving Punjab.",
			IsApproved:  true, CreatedAt: day(0), UpdatedAt: day(0),
		},
		{
			ID: "vendor-surgicare-karachi", Name: "SurgiCare Traders", ContactPerson: "Sana Khan",
			City: "Karachi", Specialties: []string{"General Surgery", "Orthopedic Surgery"},
			WhatsApp: "923211234567", Email: "info@surgicare.pk",
			Description: "Operating theatre equipment and surgical instruments.",
			IsApproved:  true, CreatedAt: day(1), UpdatedAt: day(1),
		},
		{
			ID: "vendor-labline-islamabad", Name: "LabLine Diagnostics", ContactPerson: "Usman Tariq",
			City: "Islamabad", Specialties: []string{"Pathology"},
			WhatsApp: "923331234567", Email: "contact@labline.pk",
			Description: "Refurbished laboratory analyzers with warranty.",
			IsApproved:  false, CreatedAt: day(2), UpdatedAt: day(2),
		},
	}

	listings := []any{
		domain.Listing{
			ID: "listing-echo-vivid", Title: "GE Vivid E9 Echocardiography System",
			Specialties: []string{"Cardiology"}, Categories: []string{"Imaging Equipment"},
			City: "Lahore", Condition: domain.ConditionRefurbished, Price: 4500000,
			Manufacturer: "GE Healthcare", Model: "Vivid E9",
			Description: "4D cardiac ultrasound with three probes.",
			Images:      []string{"/images/vivid-e9.jpg"}, WhatsApp: "923001234567",
			IsFeatured: true, VendorID: ref("vendor-medequip-lahore"), CreatedAt: day(3), UpdatedAt: day(3),
		},
		domain.Listing{
			ID: "listing-xray-shimadzu", Title: "Shimadzu Digital X-Ray Unit",
			Specialties: []string{"Radiology"}, Categories: []string{"Imaging Equipment"},
			City: "Lahore", Condition: domain.ConditionUsed, Price: 2800000,
			Manufacturer: "Shimadzu", Model: "RADspeed Pro",
			Description: "Ceiling mounted DR system, installed 2019.",
			Images:      []string{"/images/radspeed.jpg"}, WhatsApp: "923001234567",
			IsFeatured: true, VendorID: ref("vendor-medequip-lahore"), CreatedAt: day(4), UpdatedAt: day(4),
		},
		domain.Listing{
			ID: "listing-monitor-mindray", Title: "Mindray ePM 12 Patient Monitor",
			Specialties: []string{"Cardiology", "Emergency Medicine"}, Categories: []string{"Patient Monitoring"},
			City: "Karachi", Condition: domain.ConditionNew, Price: 650000,
			Manufacturer: "Mindray", Model: "ePM 12",
			Description: "Multiparameter monitor with ETCO2 module.",
			Images:      []string{"/images/epm12.jpg"}, WhatsApp: "923211234567",
			IsFeatured: false, VendorID: ref("vendor-surgicare-karachi"), CreatedAt: day(5), UpdatedAt: day(5),
		},
		legacyListing{
			ID: "listing-ot-table", Title: "Electro-Hydraulic Operating Table",
			Specialty: "General Surgery", Category: "Surgical Equipment",
			City: "Karachi", Condition: domain.ConditionUsed, Price: 900000,
			Manufacturer: "Maquet", Model: "Alphamaxx",
			Description: "Fully motorised table with orthopedic extension.",
			Images:      []string{"/images/alphamaxx.jpg"}, WhatsApp: "923211234567",
			IsFeatured: true, VendorID: ref("vendor-surgicare-karachi"), CreatedAt: day(6), UpdatedAt: day(6),
		},
		legacyListing{
			ID: "listing-hematology-sysmex", Title: "Sysmex XN-350 Hematology Analyzer",
			Specialty: "Pathology", Category: "Laboratory Equipment",
			City: "Islamabad", Condition: domain.ConditionRefurbished, Price: 1750000,
			Manufacturer: "Sysmex", Model: "XN-350",
			Description: "Five-part differential analyzer, serviced.",
			Images:      []string{"/images/xn350.jpg"}, WhatsApp: "923331234567",
			VendorID: ref("vendor-labline-islamabad"), CreatedAt: day(7), UpdatedAt: day(7),
		},
		domain.Listing{
			ID: "listing-ct-siemens", Title: "Siemens Somatom Go.Now CT Scanner",
			Specialties: []string{"Radiology", "Neurology"}, Categories: []string{"Imaging Equipment"},
			City: "Islamabad", Condition: domain.ConditionRefurbished, Price: 38000000,
			Manufacturer: "Siemens Healthineers", Model: "Somatom Go.Now",
			Description: "32-slice CT with workstation.",
			Images:      []string{"/images/somatom.jpg", "/images/somatom-console.jpg"}, WhatsApp: "923001234567",
			IsFeatured: true, CreatedAt: day(8), UpdatedAt: day(8),
		},
		domain.Listing{
			ID: "listing-ventilator-hamilton", Title: "Hamilton C3 ICU Ventilator",
			Specialties: []string{"Pulmonology", "Anesthesiology"}, Categories: []string{"Respiratory Equipment"},
			City: "Rawalpindi", Condition: domain.ConditionUsed, Price: 3200000,
			Manufacturer: "Hamilton Medical", Model: "C3",
			Description: "Invasive and non-invasive ventilation, adult and pediatric.",
			Images:      []string{"/images/hamilton-c3.jpg"}, WhatsApp: "923451234567",
			IsFeatured: false, CreatedAt: day(9), UpdatedAt: day(9),
		},
	}

	ref0 := taxonomy.Default()
	categories := make([]domain.Category, 0, len(ref0.Categories))
	for _, c := range ref0.Categories {
		categories = append(categories, domain.Category{
			ID:            "category-" + c.ID,
			Name:          c.Name,
			Subcategories: append([]string{}, c.Subcategories...),
			CreatedAt:     base,
			UpdatedAt:     base,
		})
	}

	return Dataset{
		Vendors:    vendors,
		Listings:   listings,
		Categories: categories,
	}
}
