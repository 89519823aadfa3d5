package pharmacy

import "strings"

const catalogImage = "https://images.pexels.com/photos/3683074/pexels-photo-3683074.jpeg?auto=compress&cs=tinysrgb&w=400"

// catalog is the fixed medicine seed set.
var catalog = []Medicine{
	{ID: 1, Name: "Paracetamol 500mg", Category: CategoryPainRelief, Price: 25, Image: catalogImage},
	{ID: 2, Name: "Ibuprofen 400mg", Category: CategoryPainRelief, Price: 35, Image: catalogImage},
	{ID: 3, Name: "Vitamin D3", Category: CategoryVitamins, Price: 120, Image: catalogImage},
	{ID: 4, Name: "Cough Syrup", Category: CategoryColdFlu, Price: 85, Image: catalogImage},
	{ID: 5, Name: "Antacid Tablets", Category: CategoryDigestive, Price: 45, Image: catalogImage},
	{ID: 6, Name: "Aspirin 75mg", Category: CategoryPainRelief, Price: 30, Image: catalogImage},
	{ID: 7, Name: "Vitamin C", Category: CategoryVitamins, Price: 95, Image: catalogImage},
	{ID: 8, Name: "Throat Lozenges", Category: CategoryColdFlu, Price: 55, Image: catalogImage},
}

// Catalog returns the medicines matching an optional case-insensitive name
// substring and an optional exact category. Empty arguments impose no
// constraint.
func Catalog(search, category string) []Medicine {
	q := strings.ToLower(search)
	out := []Medicine{}
	for _, m := range catalog {
		if q != "" && !strings.Contains(strings.ToLower(m.Name), q) {
			continue
		}
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, m)
	}
	return out
}

// MedicineByID looks up a catalog entry.
func MedicineByID(id int) (Medicine, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Medicine{}, false
}
