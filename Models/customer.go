package Models

// Customer lives under customers/<id>.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

const CustomersPath = "customers"
