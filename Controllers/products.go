package Controllers

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"Helios/Models"
)

// ProductController handles the equipment catalog endpoints
type ProductController struct {
	Store Models.Store
}

func NewProductController(store Models.Store) *ProductController {
	return &ProductController{Store: store}
}

// GetProducts retrieves the whole catalog
func (ctl *ProductController) GetProducts(c *fiber.Ctx) error {
	var all map[string]json.RawMessage
	found, err := ctl.Store.Read(c.Context(), Models.ProductsPath, &all)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve products"})
	}

	products := make([]Models.Product, 0, len(all))
	if found {
		for key, raw := range all {
			var product Models.Product
			if err := json.Unmarshal(raw, &product); err != nil {
				continue
			}
			if product.ID == "" {
				product.ID = key
			}
			products = append(products, product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return c.JSON(products)
}

// GetProduct retrieves a single product by ID
func (ctl *ProductController) GetProduct(c *fiber.Ctx) error {
	var product Models.Product
	found, err := ctl.Store.Read(c.Context(), Models.ProductsPath+"/"+c.Params("id"), &product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve product"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	return c.JSON(product)
}

// CreateProduct adds a catalog item
func (ctl *ProductController) CreateProduct(c *fiber.Ctx) error {
	var product Models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}

	product.ID = ""
	product.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	key, err := ctl.Store.PushNewChild(c.Context(), Models.ProductsPath, product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}
	product.ID = key
	if err := ctl.Store.Update(c.Context(), Models.ProductsPath+"/"+key, map[string]interface{}{"id": key}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct replaces a catalog item
func (ctl *ProductController) UpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var product Models.Product
	found, err := ctl.Store.Read(c.Context(), Models.ProductsPath+"/"+id, &product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve product"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	var input Models.Product
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	input.ID = id
	input.CreatedAt = product.CreatedAt
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "message": err.Error()})
	}
	if err := ctl.Store.Write(c.Context(), Models.ProductsPath+"/"+id, input); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(input)
}

// AdjustStock moves the stock level by a signed delta
func (ctl *ProductController) AdjustStock(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var product Models.Product
	found, err := ctl.Store.Read(c.Context(), Models.ProductsPath+"/"+id, &product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve product"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	if product.Stock+req.Delta < 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Stock cannot go negative"})
	}
	product.Stock += req.Delta
	if err := ctl.Store.Update(c.Context(), Models.ProductsPath+"/"+id, map[string]interface{}{"stock": product.Stock}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update stock"})
	}
	return c.JSON(product)
}

// DeleteProduct removes a catalog item
func (ctl *ProductController) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var product Models.Product
	found, err := ctl.Store.Read(c.Context(), Models.ProductsPath+"/"+id, &product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve product"})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	if err := ctl.Store.Delete(c.Context(), Models.ProductsPath+"/"+id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}
