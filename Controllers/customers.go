package Controllers

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"Helios/Exports"
	"Helios/Models"
)

// CustomerController handles customer-related API endpoints
type CustomerController struct {
	Store Models.Store
}

func NewCustomerController(store Models.Store) *CustomerController {
	return &CustomerController{Store: store}
}

// GetCustomers retrieves all customers
func (ctl *CustomerController) GetCustomers(c *fiber.Ctx) error {
	customers, err := ctl.list(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customers"})
	}
	return c.JSON(customers)
}

// GetCustomer retrieves a single customer by ID
func (ctl *CustomerController) GetCustomer(c *fiber.Ctx) error {
	var customer Models.Customer
	found, err := ctl.Store.Read(c.Context(), Models.CustomersPath+"/"+c.Params("id"), &customer)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customer"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}
	return c.JSON(customer)
}

// CreateCustomer creates a new customer
func (ctl *CustomerController) CreateCustomer(c *fiber.Ctx) error {
	var customer Models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}

	customer.ID = ""
	customer.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	key, err := ctl.Store.PushNewChild(c.Context(), Models.CustomersPath, customer)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create customer"})
	}
	customer.ID = key
	if err := ctl.Store.Update(c.Context(), Models.CustomersPath+"/"+key, map[string]interface{}{"id": key}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create customer"})
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// UpdateCustomer updates an existing customer
func (ctl *CustomerController) UpdateCustomer(c *fiber.Ctx) error {
	id := c.Params("id")

	var customer Models.Customer
	found, err := ctl.Store.Read(c.Context(), Models.CustomersPath+"/"+id, &customer)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customer"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	var input Models.Customer
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	input.ID = id
	input.CreatedAt = customer.CreatedAt
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}
	if err := ctl.Store.Write(c.Context(), Models.CustomersPath+"/"+id, input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update customer"})
	}
	return c.JSON(input)
}

// DeleteCustomer removes a customer
func (ctl *CustomerController) DeleteCustomer(c *fiber.Ctx) error {
	id := c.Params("id")

	var customer Models.Customer
	found, err := ctl.Store.Read(c.Context(), Models.CustomersPath+"/"+id, &customer)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customer"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
	}

	if err := ctl.Store.Delete(c.Context(), Models.CustomersPath+"/"+id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete customer"})
	}
	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}

// ExportCustomersCSV downloads the customer book as CSV
func (ctl *CustomerController) ExportCustomersCSV(c *fiber.Ctx) error {
	customers, err := ctl.list(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve customers"})
	}
	data, err := Exports.CustomersCSV(customers)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build CSV"})
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="customers.csv"`)
	return c.Send(data)
}

func (ctl *CustomerController) list(c *fiber.Ctx) ([]Models.Customer, error) {
	var all map[string]json.RawMessage
	found, err := ctl.Store.Read(c.Context(), Models.CustomersPath, &all)
	if err != nil {
		return nil, err
	}

	customers := make([]Models.Customer, 0, len(all))
	if found {
		for key, raw := range all {
			var customer Models.Customer
			if err := json.Unmarshal(raw, &customer); err != nil {
				continue
			}
			if customer.ID == "" {
				customer.ID = key
			}
			customers = append(customers, customer)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })
	return customers, nil
}
