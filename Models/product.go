package Models

// Product is a stocked catalog item (panels, inverters, batteries, mounting
// structures). Lives under products/<id>.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" validate:"required"`
	Model     string  `json:"model"`
	Category  string  `json:"category"`
	Wattage   float64 `json:"wattage"`
	Price     float64 `json:"price" validate:"gte=0"`
	Stock     int     `json:"stock" validate:"gte=0"`
	CreatedAt string  `json:"created_at"`
}

const ProductsPath = "products"
