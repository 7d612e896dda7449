package model

// Product is a catalog item purchasable for currency. Products are seeded
// once and read-only afterwards; applying their effects (income
// multipliers etc.) is the client's business, not this API's.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}
