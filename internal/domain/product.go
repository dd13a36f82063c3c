package domain

// Product is a catalog entry. Identity is ID.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Catalog is the static catalog document.
type Catalog struct {
	Products []Product `json:"products"`
}
