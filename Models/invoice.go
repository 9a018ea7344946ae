package Models

// Invoice lives under invoices/<id>. It may be cut from an accepted
// quotation (QuotationID set) or created directly.
type Invoice struct {
	ID           string     `json:"id"`
	QuotationID  string     `json:"quotation_id,omitempty"`
	CustomerID   string     `json:"customer_id" validate:"required"`
	CustomerName string     `json:"customer_name"`
	Items        []LineItem `json:"items" validate:"required,min=1,dive"`
	Total        float64    `json:"total"`
	Paid         bool       `json:"paid"`
	Date         string     `json:"date"`
	CreatedAt    string     `json:"created_at"`
}

// ComputeTotal recalculates Total from the line items.
func (inv *Invoice) ComputeTotal() {
	var total float64
	for _, item := range inv.Items {
		total += item.Amount()
	}
	inv.Total = total
}

const InvoicesPath = "invoices"
