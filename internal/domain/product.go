package domain

import "time"

// ScannedProduct is users/{uid}/scannedProducts/{pid} as written by the app.
type ScannedProduct struct {
	ID          string `json:"id,omitempty" firestore:"-"`
	ProductName string `json:"productName,omitempty" firestore:"productName,omitempty"`
	Name        string `json:"name,omitempty" firestore:"name,omitempty"`
	EcoScore    *int   `json:"ecoScore,omitempty" firestore:"ecoScore,omitempty"`
}

// DisplayName prefers productName, then name.
func (p ScannedProduct) DisplayName() string {
	switch {
	case p.ProductName != "":
		return p.ProductName
	case p.Name != "":
		return p.Name
	default:
		return "Product"
	}
}

// Product is a catalog document in products/{id}.
type Product struct {
	ID           string    `json:"id" firestore:"-"`
	Name         string    `json:"name" firestore:"name"`
	Code         string    `json:"code" firestore:"code"`
	Categories   []string  `json:"categories" firestore:"categories"`
	EcoScore     string    `json:"eco_score" firestore:"eco_score"`
	CO2Footprint float64   `json:"co2_footprint" firestore:"co2_footprint"`
	Packaging    string    `json:"packaging" firestore:"packaging"`
	Description  string    `json:"description" firestore:"description"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}

// SampleProduct is the development fixture written by `jobs seed product`.
func SampleProduct(now time.Time) Product {
	return Product{
		ID:           "sample_mineral_water",
		Name:         "Mineral Water (Sample)",
		Code:         "0000000000000",
		Categories:   []string{"Beverages", "Water"},
		EcoScore:     "B",
		CO2Footprint: 0.02,
		Packaging:    "plastic bottle",
		Description:  "Sample mineral water entry for local testing",
		CreatedAt:    now.UTC(),
	}
}
