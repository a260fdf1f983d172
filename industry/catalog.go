// Package industry holds the closed set of service-industry labels accepted
// by the Google Local Services Ads calculator. The list is fixed upstream;
// matching is exact (case- and punctuation-sensitive) because the calculator
// widget's autocomplete confirms the typed label verbatim.
package industry

// labels is the ordered catalog. Order matters for the /industries endpoint
// so the client form renders the same list the upstream widget knows.
var labels = []string{
	"Acupuncturist", "Allergist", "Animal shelter", "Appliance repair", "Architect",
	"Audiologist", "Auto body shop", "Auto repair shop", "Bankruptcy lawyer", "Barber shop",
	"Beauty school", "Business lawyer", "Car repair", "Car wash and detailing", "Carpenter",
	"Carpet cleaning", "Cellphone and laptop repair", "Child care", "Chiropractor", "Contract lawyer",
	"Countertop pro", "Criminal lawyer", "Dance instructor", "Dentist", "Dermatologist",
	"Dietitian", "Disability lawyer", "Drain expert", "Driving instructor", "Dui lawyer",
	"Electrician", "Estate lawyer", "Event planner", "Family lawyer", "Fencing pro",
	"Financial planner", "First aid trainer", "Flooring pro", "Foundation pro", "Funeral home",
	"Garage door pro", "General contractor", "Hair removal", "Hair salon", "Handyman",
	"Home inspector", "Home insulation", "Home security", "Home theater", "House cleaner",
	"HVAC", "Immigration lawyer", "Insurance agency", "Interior designer", "Ip lawyer",
	"Junk removal", "Labor lawyer", "Landscaper", "Language instructor", "Lawn care",
	"Lawyer", "Litigation Lawyer", "Locksmith", "Malpractice lawyer", "Massage school",
	"Massage therapist", "Medical spa", "Mover", "Nail salon", "Occupational therapist",
	"Ophthalmologist", "Optometrist", "Orthodontist", "Orthopedic surgeon", "Painter",
	"Personal injury lawyer", "Personal trainer", "Pest control", "Pet adoption", "Pet boarding",
	"Pet grooming", "Pet trainer", "Photographer", "Physiotherapist", "Piercing studio",
	"Plastic surgeon", "Plumber", "Podiatrist", "Pool cleaner", "Pool contractor",
	"Preschool", "Primary Care", "Real estate agent", "Real estate lawyer", "Roofer",
	"Sewage pro", "Siding pro", "Snow removal", "Solar energy contractor", "Storage",
	"Tattoo studio", "Tax lawyer", "Tax specialist", "Tire shop", "Towing",
	"Towing pro", "Traffic lawyer", "Tree service", "Tutor", "Veterinarian",
	"Videographer", "Water damage", "Weight loss service", "Window cleaner", "Window repair",
	"Windshield repair pro", "Yoga instructor",
}

// index supports O(1) membership checks. Built once at init.
var index = func() map[string]struct{} {
	m := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		m[l] = struct{}{}
	}
	return m
}()

// Contains reports whether label is a valid industry. Exact match only.
func Contains(label string) bool {
	_, ok := index[label]
	return ok
}

// All returns the ordered catalog as a defensive copy.
func All() []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Count returns the catalog size.
func Count() int {
	return len(labels)
}
