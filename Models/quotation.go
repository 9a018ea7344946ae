package Models

// LineItem is one row of a quotation or invoice.
type LineItem struct {
	ProductID   string  `json:"product_id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

func (li LineItem) Amount() float64 {
	return float64(li.Quantity) * li.UnitPrice
}

// Quotation statuses follow the document through its life.
const (
	QuotationDraft    = "draft"
	QuotationSent     = "sent"
	QuotationAccepted = "accepted"
	QuotationRejected = "rejected"
)

// Quotation lives under quotations/<id>.
type Quotation struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id" validate:"required"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	Items         []LineItem `json:"items" validate:"required,min=1,dive"`
	Total         float64    `json:"total"`
	Status        string     `json:"status"`
	Date          string     `json:"date"`
	CreatedAt     string     `json:"created_at"`
}

// ComputeTotal recalculates Total from the line items.
func (q *Quotation) ComputeTotal() {
	var total float64
	for _, item := range q.Items {
		total += item.Amount()
	}
	q.Total = total
}

const QuotationsPath = "quotations"
