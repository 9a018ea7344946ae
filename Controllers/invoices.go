package Controllers

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"Helios/Attendance"
	"Helios/Exports"
	"Helios/Models"
)

// InvoiceController handles invoice endpoints
type InvoiceController struct {
	Store Models.Store
}

func NewInvoiceController(store Models.Store) *InvoiceController {
	return &InvoiceController{Store: store}
}

// GetInvoices retrieves all invoices, newest first
func (ctl *InvoiceController) GetInvoices(c *fiber.Ctx) error {
	var all map[string]json.RawMessage
	found, err := ctl.Store.Read(c.Context(), Models.InvoicesPath, &all)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve invoices"})
	}

	invoices := make([]Models.Invoice, 0, len(all))
	if found {
		for key, raw := range all {
			var invoice Models.Invoice
			if err := json.Unmarshal(raw, &invoice); err != nil {
				continue
			}
			if invoice.ID == "" {
				invoice.ID = key
			}
			invoices = append(invoices, invoice)
		}
	}
	sort.Slice(invoices, func(i, j int) bool { return invoices[i].CreatedAt > invoices[j].CreatedAt })
	return c.JSON(invoices)
}

// GetInvoice retrieves a single invoice by ID
func (ctl *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	invoice, status := ctl.load(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": invoiceLoadError(status)})
	}
	return c.JSON(invoice)
}

// CreateInvoice creates an invoice directly
func (ctl *InvoiceController) CreateInvoice(c *fiber.Ctx) error {
	var invoice Models.Invoice
	if err := c.BodyParser(&invoice); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(invoice); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}

	var customer Models.Customer
	found, err := ctl.Store.Read(c.Context(), Models.CustomersPath+"/"+invoice.CustomerID, &customer)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customer"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found", "message": "The specified customer does not exist"})
	}

	invoice.ID = ""
	invoice.CustomerName = customer.Name
	invoice.Paid = false
	invoice.Date = Attendance.OrgDay(time.Now())
	invoice.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	invoice.ComputeTotal()
	return ctl.persistNew(c, invoice)
}

// CreateInvoiceFromQuotation cuts an invoice from an accepted quotation
func (ctl *InvoiceController) CreateInvoiceFromQuotation(c *fiber.Ctx) error {
	quotationID := c.Params("id")

	var quotation Models.Quotation
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath+"/"+quotationID, &quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotation"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
	}
	if quotation.Status != Models.QuotationAccepted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Only accepted quotations can be invoiced"})
	}

	invoice := Models.Invoice{
		QuotationID:  quotation.ID,
		CustomerID:   quotation.CustomerID,
		CustomerName: quotation.CustomerName,
		Items:        quotation.Items,
		Total:        quotation.Total,
		Date:         Attendance.OrgDay(time.Now()),
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	return ctl.persistNew(c, invoice)
}

// MarkInvoicePaid flips the paid flag
func (ctl *InvoiceController) MarkInvoicePaid(c *fiber.Ctx) error {
	invoice, status := ctl.load(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": invoiceLoadError(status)})
	}

	invoice.Paid = true
	if err := ctl.Store.Update(c.Context(), Models.InvoicesPath+"/"+invoice.ID, map[string]interface{}{"paid": true}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update invoice"})
	}
	return c.JSON(invoice)
}

// DeleteInvoice removes an invoice
func (ctl *InvoiceController) DeleteInvoice(c *fiber.Ctx) error {
	invoice, status := ctl.load(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": invoiceLoadError(status)})
	}

	if err := ctl.Store.Delete(c.Context(), Models.InvoicesPath+"/"+invoice.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete invoice"})
	}
	return c.JSON(fiber.Map{"message": "Invoice deleted successfully"})
}

// InvoicePDF downloads the invoice as a PDF document
func (ctl *InvoiceController) InvoicePDF(c *fiber.Ctx) error {
	invoice, status := ctl.load(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": invoiceLoadError(status)})
	}

	data, err := Exports.InvoicePDF(invoice)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build PDF"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice-`+invoice.ID+`.pdf"`)
	return c.Send(data)
}

// InvoicePreview renders the printable HTML view
func (ctl *InvoiceController) InvoicePreview(c *fiber.Ctx) error {
	invoice, status := ctl.load(c)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": invoiceLoadError(status)})
	}
	return c.Render("invoice", fiber.Map{"Invoice": invoice})
}

func (ctl *InvoiceController) persistNew(c *fiber.Ctx, invoice Models.Invoice) error {
	key, err := ctl.Store.PushNewChild(c.Context(), Models.InvoicesPath, invoice)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invoice"})
	}
	invoice.ID = key
	if err := ctl.Store.Update(c.Context(), Models.InvoicesPath+"/"+key, map[string]interface{}{"id": key}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invoice"})
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// load reads the invoice named in the route; the int is an HTTP status, 0 on
// success.
func (ctl *InvoiceController) load(c *fiber.Ctx) (Models.Invoice, int) {
	var invoice Models.Invoice
	found, err := ctl.Store.Read(c.Context(), Models.InvoicesPath+"/"+c.Params("id"), &invoice)
	if err != nil {
		return invoice, fiber.StatusInternalServerError
	}
	if !found {
		return invoice, fiber.StatusNotFound
	}
	if invoice.ID == "" {
		invoice.ID = c.Params("id")
	}
	return invoice, 0
}

func invoiceLoadError(status int) string {
	if status == fiber.StatusNotFound {
		return "Invoice not found"
	}
	return "Failed to retrieve invoice"
}
