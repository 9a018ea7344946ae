package Controllers

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"Helios/Attendance"
	"Helios/Models"
	"Helios/email"
)

// QuotationController handles quotation endpoints
type QuotationController struct {
	Store Models.Store
	Email Models.EmailConfig
}

func NewQuotationController(store Models.Store, emailConfig Models.EmailConfig) *QuotationController {
	return &QuotationController{Store: store, Email: emailConfig}
}

// GetQuotations retrieves all quotations, newest first
func (ctl *QuotationController) GetQuotations(c *fiber.Ctx) error {
	var all map[string]json.RawMessage
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath, &all)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotations"})
	}

	quotations := make([]Models.Quotation, 0, len(all))
	if found {
		for key, raw := range all {
			var quotation Models.Quotation
			if err := json.Unmarshal(raw, &quotation); err != nil {
				continue
			}
			if quotation.ID == "" {
				quotation.ID = key
			}
			quotations = append(quotations, quotation)
		}
	}
	sort.Slice(quotations, func(i, j int) bool { return quotations[i].CreatedAt > quotations[j].CreatedAt })
	return c.JSON(quotations)
}

// GetQuotation retrieves a single quotation by ID
func (ctl *QuotationController) GetQuotation(c *fiber.Ctx) error {
	var quotation Models.Quotation
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath+"/"+c.Params("id"), &quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotation"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
	}
	return c.JSON(quotation)
}

// CreateQuotation drafts a quotation for a customer. Customer name and email
// are denormalized onto the document, matching how the SPA reads it back.
func (ctl *QuotationController) CreateQuotation(c *fiber.Ctx) error {
	var quotation Models.Quotation
	if err := c.BodyParser(&quotation); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(quotation); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}

	var customer Models.Customer
	found, err := ctl.Store.Read(c.Context(), Models.CustomersPath+"/"+quotation.CustomerID, &customer)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customer"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found", "message": "The specified customer does not exist"})
	}

	quotation.ID = ""
	quotation.CustomerName = customer.Name
	quotation.CustomerEmail = customer.Email
	quotation.Status = Models.QuotationDraft
	quotation.Date = Attendance.OrgDay(time.Now())
	quotation.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	quotation.ComputeTotal()

	key, err := ctl.Store.PushNewChild(c.Context(), Models.QuotationsPath, quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quotation"})
	}
	quotation.ID = key
	if err := ctl.Store.Update(c.Context(), Models.QuotationsPath+"/"+key, map[string]interface{}{"id": key}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quotation"})
	}
	return c.Status(fiber.StatusCreated).JSON(quotation)
}

// UpdateQuotation replaces the line items of a draft
func (ctl *QuotationController) UpdateQuotation(c *fiber.Ctx) error {
	id := c.Params("id")

	var quotation Models.Quotation
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath+"/"+id, &quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotation"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
	}
	if quotation.Status == Models.QuotationAccepted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Accepted quotations cannot be edited"})
	}

	var input struct {
		Items []Models.LineItem `json:"items" validate:"required,min=1,dive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}

	quotation.Items = input.Items
	quotation.ComputeTotal()
	if err := ctl.Store.Write(c.Context(), Models.QuotationsPath+"/"+id, quotation); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quotation"})
	}
	return c.JSON(quotation)
}

// SetQuotationStatus moves a quotation through draft/sent/accepted/rejected
func (ctl *QuotationController) SetQuotationStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	switch req.Status {
	case Models.QuotationDraft, Models.QuotationSent, Models.QuotationAccepted, Models.QuotationRejected:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown quotation status"})
	}

	var quotation Models.Quotation
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath+"/"+id, &quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotation"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
	}

	quotation.Status = req.Status
	if err := ctl.Store.Update(c.Context(), Models.QuotationsPath+"/"+id, map[string]interface{}{"status": req.Status}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quotation"})
	}
	return c.JSON(quotation)
}

// DeleteQuotation removes a quotation
func (ctl *QuotationController) DeleteQuotation(c *fiber.Ctx) error {
	id := c.Params("id")

	var quotation Models.Quotation
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath+"/"+id, &quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotation"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
	}

	if err := ctl.Store.Delete(c.Context(), Models.QuotationsPath+"/"+id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quotation"})
	}
	return c.JSON(fiber.Map{"message": "Quotation deleted successfully"})
}

// SendQuotation emails the quotation summary to the customer and marks it sent
func (ctl *QuotationController) SendQuotation(c *fiber.Ctx) error {
	id := c.Params("id")

	var quotation Models.Quotation
	found, err := ctl.Store.Read(c.Context(), Models.QuotationsPath+"/"+id, &quotation)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve quotation"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quotation not found"})
	}
	if quotation.CustomerEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Customer has no email address"})
	}

	message := Models.EmailMessage{
		To:      []string{quotation.CustomerEmail},
		Subject: fmt.Sprintf("Quotation %s", quotation.ID),
		Body:    quotationBody(quotation),
	}
	if err := email.SendEmail(ctl.Email, message); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed", "message": "Could not send quotation email"})
	}

	quotation.Status = Models.QuotationSent
	if err := ctl.Store.Update(c.Context(), Models.QuotationsPath+"/"+id, map[string]interface{}{"status": Models.QuotationSent}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quotation"})
	}
	return c.JSON(quotation)
}

func quotationBody(q Models.Quotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\r\n\r\nPlease find your quotation below.\r\n\r\n", q.CustomerName)
	for _, item := range q.Items {
		fmt.Fprintf(&b, "  %-30s x%-3d @ %.2f = %.2f\r\n", item.Description, item.Quantity, item.UnitPrice, item.Amount())
	}
	fmt.Fprintf(&b, "\r\nTotal: %.2f\r\n", q.Total)
	return b.String()
}
