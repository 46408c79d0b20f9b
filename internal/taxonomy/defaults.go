package taxonomy

// Default returns the built-in reference taxonomy.
func Default() *Reference {
	return &Reference{
		ClinicalSpecialties: []Term{
			{ID: "cardiology", Name: "Cardiology"},
			{ID: "radiology", Name: "Radiology"},
			{ID: "neurology", Name: "Neurology"},
			{ID: "pulmonology", Name: "Pulmonology"},
			{ID: "gastroenterology", Name: "Gastroenterology"},
			{ID: "nephrology", Name: "Nephrology"},
			{ID: "oncology", Name: "Oncology"},
			{ID: "pediatrics", Name: "Pediatrics"},
			{ID: "dermatology", Name: "Dermatology"},
			{ID: "endocrinology", Name: "Endocrinology"},
			{ID: "pathology", Name: "Pathology"},
			{ID: "anesthesiology", Name: "Anesthesiology"},
			{ID: "emergency-medicine", Name: "Emergency Medicine"},
			{ID: "physiotherapy", Name: "Physiotherapy"},
			{ID: "dentistry", Name: "Dentistry"},
		},
		SurgicalSpecialties: []Term{
			{ID: "general-surgery", Name: "General Surgery"},
			{ID: "orthopedic-surgery", Name: "Orthopedic Surgery"},
			{ID: "neurosurgery", Name: "Neurosurgery"},
			{ID: "cardiothoracic-surgery", Name: "Cardiothoracic Surgery"},
			{ID: "urology", Name: "Urology"},
			{ID: "ent", Name: "ENT"},
			{ID: "ophthalmology", Name: "Ophthalmology"},
			{ID: "plastic-surgery", Name: "Plastic Surgery"},
			{ID: "gynecology-obstetrics", Name: "Gynecology & Obstetrics"},
			{ID: "vascular-surgery", Name: "Vascular Surgery"},
		},
		Categories: []CategoryTerm{
			{ID: "imaging", Name: "Imaging Equipment", Subcategories: []string{"X-Ray", "Ultrasound", "CT Scanner", "MRI", "Mammography", "C-Arm"}},
			{ID: "patient-monitoring", Name: "Patient Monitoring", Subcategories: []string{"Multiparameter Monitors", "ECG Machines", "Pulse Oximeters", "Fetal Monitors"}},
			{ID: "surgical", Name: "Surgical Equipment", Subcategories: []string{"Operating Tables", "Surgical Lights", "Electrosurgical Units", "Surgical Instruments"}},
			{ID: "laboratory", Name: "Laboratory Equipment", Subcategories: []string{"Hematology Analyzers", "Chemistry Analyzers", "Centrifuges", "Microscopes"}},
			{ID: "respiratory", Name: "Respiratory Equipment", Subcategories: []string{"Ventilators", "CPAP/BiPAP", "Oxygen Concentrators", "Nebulizers"}},
			{ID: "dental", Name: "Dental Equipment", Subcategories: []string{"Dental Chairs", "Dental X-Ray", "Autoclaves"}},
			{ID: "endoscopy", Name: "Endoscopy", Subcategories: []string{"Gastroscopes", "Colonoscopes", "Laparoscopy Towers"}},
			{ID: "hospital-furniture", Name: "Hospital Furniture", Subcategories: []string{"Hospital Beds", "Stretchers", "Wheelchairs"}},
			{ID: "sterilization", Name: "Sterilization", Subcategories: []string{"Autoclaves", "Plasma Sterilizers"}},
			{ID: "rehabilitation", Name: "Rehabilitation", Subcategories: []string{"Physiotherapy Units", "Traction Tables"}},
		},
		Cities: []string{
			"Lahore", "Karachi", "Islamabad", "Rawalpindi", "Faisalabad", "Multan",
			"Peshawar", "Quetta", "Sialkot", "Gujranwala", "Hyderabad", "Bahawalpur",
		},
	}
}
