package treatments

// DefaultCatalog returns the menu the catalog is seeded with on first
// run. The practitioner edits it from the treatments screen afterwards.
func DefaultCatalog() []Category {
	return []Category{
		{
			Name: "Basic Treatments",
			Items: []Treatment{
				{
					ID:          "botox",
					Name:        "Botox",
					Description: "Upper part of the face - consists of 3 areas: forehead, between eyebrows, and eye sides.",
					Price:       "400 NIS per area",
					Duration:    "10 minutes",
					Details:     []string{},
				},
				{
					ID:          "hyaluronic",
					Name:        "Hyaluronic Acid",
					Description: "Lower part of the face (lips, cheeks, mouth-side wrinkles, etc...)",
					Price:       "1,000-1,400 NIS per syringe",
					Duration:    "20-30 minutes",
					Details: []string{
						"Treatment time for a single area (usually for younger people): 20 minutes",
						"Overall facial hyaluronic acid treatment time: 30 minutes",
					},
				},
				{
					ID:          "skin-booster",
					Name:        "Skin Booster",
					Description: "Treatment to refresh facial skin, fills small wrinkles, fills post-acne scars, creates smoother skin",
					Price:       "1,100 NIS per treatment",
					Duration:    "30 minutes",
					Details: []string{
						"First-time treatment: A series of 2-3 treatments with 1-1.5 months intervals",
						"Afterwards, one treatment as needed for a 'boost'",
					},
				},
				{
					ID:          "profhilo",
					Name:        "Profhilo",
					Description: "6-point treatment to refresh facial skin",
					Price:       "1,600 NIS per treatment",
					Duration:    "30 minutes",
					Details: []string{
						"First-time treatment: A series of 2-3 treatments with 1-1.5 months intervals",
						"Treatment time: 15 minutes",
						"Total treatment time: 30 minutes",
					},
				},
				{
					ID:          "threads",
					Name:        "Threads (Aptos)",
					Description: "Facial skin lifting using threads. Usually a minimum of 2 threads on each side.",
					Price:       "450 NIS per thread",
					Duration:    "30-45 minutes",
					Details: []string{
						"Very mature clients 45 minutes",
						"No thread treatments for eye lifting",
					},
				},
			},
		},
		{
			Name: "Major Treatments",
			Items: []Treatment{
				{
					ID:          "sculptra",
					Name:        "Sculptra",
					Description: "Skin renewal, encourages collagen production",
					Price:       "4,000 NIS",
					Duration:    "1 hour",
					Details: []string{
						"Advantage is that it lasts up to 1.5-2 years",
						"First-time: Series of 2-3 treatments. Afterwards as needed",
						"The client should arrive 15 minutes early to apply numbing cream",
					},
				},
				{
					ID:          "estafil",
					Name:        "Estafil",
					Description: "Skin renewal, encourages collagen production",
					Price:       "3,500 NIS",
					Duration:    "1 hour",
					Details: []string{
						"Advantage is that it lasts up to 1.5-2 years",
						"First-time: Series of 2-3 treatments. Afterwards as needed",
						"The client should arrive 15 minutes early to apply numbing cream",
					},
				},
				{
					ID:          "oledia",
					Name:        "Oledia",
					Description: "Skin renewal, encourages collagen production",
					Price:       "3,000 NIS",
					Duration:    "1 hour",
					Details: []string{
						"Advantage is that it lasts up to 1.5-2 years",
						"First-time: Series of 2-3 treatments. Afterwards as needed",
						"The client should arrive 15 minutes early to apply numbing cream",
					},
				},
			},
		},
		{
			Name: "Special Treatments",
			Items: []Treatment{
				{
					ID:          "botox-migraine",
					Name:        "Botox for Migraine",
					Description: "Treatment for migraine relief",
					Price:       "3,500 NIS",
					Duration:    "Varies",
					Details: []string{
						"Not 100% effective",
						"Sometimes works very well and sometimes has no effect",
						"No way to know in advance, should be considered carefully",
					},
				},
				{
					ID:          "botox-sweating",
					Name:        "Botox for Excessive Sweating",
					Description: "Treatment for palms, armpits",
					Price:       "3,500 NIS",
					Duration:    "Varies",
					Details: []string{
						"Not 100% effective",
						"Sometimes works very well and sometimes has no effect",
						"No way to know in advance, should be considered carefully",
					},
				},
			},
		},
	}
}
