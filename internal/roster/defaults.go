package roster

// Default returns the built-in sample roster.
func Default() *Roster {
	r, err := New(sampleWorkers)
	if err != nil {
		panic(err)
	}
	return r
}

var sampleWorkers = []Worker{
	{
		ID:             "w1",
		Name:           "Marcus Thompson",
		Trade:          "Electrician",
		Specialties:    []string{"Residential Wiring", "Panel Upgrades", "Lighting Installation"},
		Rating:         4.8,
		ReviewCount:    167,
		Distance:       1.2,
		HourlyRate:     85,
		Experience:     12,
		CompletedJobs:  340,
		Certifications: []string{"Master Electrician License", "OSHA Certified"},
		Availability:   []string{"tomorrow", "next-week"},
	},
	{
		ID:             "w2",
		Name:           "Rick Martinez",
		Trade:          "Plumber",
		Specialties:    []string{"Leak repair", "Pipe installation", "Drain cleaning"},
		Rating:         4.8,
		ReviewCount:    212,
		Distance:       2.3,
		HourlyRate:     65,
		Experience:     8,
		CompletedJobs:  342,
		Certifications: []string{"Licensed Plumber", "Backflow Prevention"},
		Availability:   []string{"Available now"},
	},
	{
		ID:             "w3",
		Name:           "Sarah Chen",
		Trade:          "HVAC",
		Specialties:    []string{"Furnace Repair", "AC Installation", "Heat Pump Service"},
		Rating:         4.9,
		ReviewCount:    98,
		Distance:       3.4,
		HourlyRate:     95,
		Experience:     10,
		CompletedJobs:  215,
		Certifications: []string{"EPA 608 Universal", "NATE Certified"},
		Availability:   []string{"today", "tomorrow"},
	},
	{
		ID:             "w4",
		Name:           "David Kowalski",
		Trade:          "Carpenter",
		Specialties:    []string{"Door Repair", "Cabinet Installation", "Deck Building"},
		Rating:         4.6,
		ReviewCount:    134,
		Distance:       4.1,
		HourlyRate:     60,
		Experience:     15,
		CompletedJobs:  410,
		Certifications: []string{"Journeyman Carpenter"},
		Availability:   []string{"tomorrow"},
	},
	{
		ID:             "w5",
		Name:           "Lisa Park",
		Trade:          "Painter",
		Specialties:    []string{"Interior Painting", "Drywall Patching", "Cabinet Refinishing"},
		Rating:         4.7,
		ReviewCount:    88,
		Distance:       2.9,
		HourlyRate:     50,
		Experience:     6,
		CompletedJobs:  156,
		Certifications: []string{"Lead-Safe Certified"},
		Availability:   []string{"next-week"},
	},
	{
		ID:             "w6",
		Name:           "James O'Brien",
		Trade:          "Roofer",
		Specialties:    []string{"Shingle Repair", "Storm Damage", "Gutter Installation"},
		Rating:         4.5,
		ReviewCount:    71,
		Distance:       6.8,
		HourlyRate:     80,
		Experience:     18,
		CompletedJobs:  298,
		Certifications: []string{"GAF Certified Installer"},
		Availability:   []string{"today"},
	},
	{
		ID:             "w7",
		Name:           "Aisha Johnson",
		Trade:          "Appliance Repair",
		Specialties:    []string{"Microwave Repair", "Refrigerator Repair", "Washer and Dryer Service"},
		Rating:         4.8,
		ReviewCount:    143,
		Distance:       1.9,
		HourlyRate:     70,
		Experience:     9,
		CompletedJobs:  387,
		Certifications: []string{"Certified Appliance Professional"},
		Availability:   []string{"today", "tomorrow"},
	},
	{
		ID:             "w8",
		Name:           "Tom Reyes",
		Trade:          "Handyman",
		Specialties:    []string{"General Repairs", "Furniture Assembly", "Fixture Replacement"},
		Rating:         4.4,
		ReviewCount:    205,
		Distance:       0.8,
		HourlyRate:     45,
		Experience:     7,
		CompletedJobs:  520,
		Certifications: []string{},
		Availability:   []string{"today", "tomorrow", "next-week"},
	},
	{
		ID:             "w9",
		Name:           "Nina Volkova",
		Trade:          "Locksmith",
		Specialties:    []string{"Lock Repair", "Rekeying", "Emergency Lockout"},
		Rating:         4.9,
		ReviewCount:    64,
		Distance:       3.0,
		HourlyRate:     75,
		Experience:     11,
		CompletedJobs:  190,
		Certifications: []string{"ALOA Certified"},
		Availability:   []string{"Available now"},
	},
	{
		ID:             "w10",
		Name:           "Carlos Mendez",
		Trade:          "Cleaner",
		Specialties:    []string{"Deep Cleaning", "Water Damage Cleanup", "Move-out Cleaning"},
		Rating:         4.6,
		ReviewCount:    119,
		Distance:       2.2,
		HourlyRate:     40,
		Experience:     5,
		CompletedJobs:  260,
		Certifications: []string{},
		Availability:   []string{"tomorrow"},
	},
	{
		ID:             "w11",
		Name:           "Priya Natarajan",
		Trade:          "Electrician",
		Specialties:    []string{"Outlet Repair", "Surge Protection", "Troubleshooting"},
		Rating:         4.6,
		ReviewCount:    92,
		Distance:       3.7,
		HourlyRate:     78,
		Experience:     6,
		CompletedJobs:  174,
		Certifications: []string{"Journeyman Electrician"},
		Availability:   []string{"today"},
	},
	{
		ID:             "w12",
		Name:           "Ben Adler",
		Trade:          "Plumber",
		Specialties:    []string{"Water Heater Installation", "Toilet Repair", "Sewer Line"},
		Rating:         4.5,
		ReviewCount:    156,
		Distance:       5.1,
		HourlyRate:     72,
		Experience:     14,
		CompletedJobs:  402,
		Certifications: []string{"Master Plumber"},
		Availability:   []string{"tomorrow", "next-week"},
	},
}
