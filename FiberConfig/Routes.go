package FiberConfig

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"

	"Helios/Attendance"
	"Helios/Controllers"
	"Helios/Models"
	"Helios/middleware"
)

// SetupRoutes wires every endpoint with its literal role list. The lists are
// deliberate: master_admin appears only where it should pass. A route that
// omits it denies it, there is no implicit superuser.
func SetupRoutes(app *fiber.App, engine *Attendance.Engine) {
	store := Models.DB

	// Initialize handlers
	customerController := Controllers.NewCustomerController(store)
	productController := Controllers.NewProductController(store)
	quotationController := Controllers.NewQuotationController(store, Models.EmailConfigFromEnv())
	invoiceController := Controllers.NewInvoiceController(store)
	userController := Controllers.NewUserController(store)
	attendanceController := Controllers.NewAttendanceController(engine, store)

	anyRole := middleware.Verify(Models.RoleMasterAdmin, Models.RoleAdmin, Models.RoleEmployee)
	office := middleware.Verify(Models.RoleMasterAdmin, Models.RoleAdmin)
	masterOnly := middleware.Verify(Models.RoleMasterAdmin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "online": Models.IsOnline(store)})
	})

	// Session
	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/Logout", Controllers.Logout)
	app.Get("/api/validate-token", Controllers.ValidateToken)
	app.Get("/api/User", anyRole, Controllers.User)

	// User management
	app.Post("/api/RegisterUser", masterOnly, userController.RegisterUser)
	app.Get("/api/FetchUsers", masterOnly, userController.FetchUsers)
	app.Patch("/api/users/:id", masterOnly, userController.UpdateUser)

	api := app.Group("/api")

	// Customer routes
	customers := api.Group("/customers", office)
	customers.Get("/", customerController.GetCustomers)
	customers.Post("/", customerController.CreateCustomer)
	customers.Get("/export/csv", customerController.ExportCustomersCSV)
	customers.Get("/:id", customerController.GetCustomer)
	customers.Put("/:id", customerController.UpdateCustomer)
	customers.Delete("/:id", customerController.DeleteCustomer)

	// Product routes - everyone can browse the catalog, only office staff edit
	products := api.Group("/products")
	products.Get("/", anyRole, productController.GetProducts)
	products.Get("/:id", anyRole, productController.GetProduct)
	products.Post("/", office, productController.CreateProduct)
	products.Put("/:id", office, productController.UpdateProduct)
	products.Post("/:id/stock", office, productController.AdjustStock)
	products.Delete("/:id", office, productController.DeleteProduct)

	// Quotation routes
	quotations := api.Group("/quotations", office)
	quotations.Get("/", quotationController.GetQuotations)
	quotations.Post("/", quotationController.CreateQuotation)
	quotations.Get("/:id", quotationController.GetQuotation)
	quotations.Put("/:id", quotationController.UpdateQuotation)
	quotations.Patch("/:id/status", quotationController.SetQuotationStatus)
	quotations.Post("/:id/send", quotationController.SendQuotation)
	quotations.Post("/:id/invoice", invoiceController.CreateInvoiceFromQuotation)
	quotations.Delete("/:id", quotationController.DeleteQuotation)

	// Invoice routes
	invoices := api.Group("/invoices", office)
	invoices.Get("/", invoiceController.GetInvoices)
	invoices.Post("/", invoiceController.CreateInvoice)
	invoices.Get("/:id", invoiceController.GetInvoice)
	invoices.Get("/:id/pdf", invoiceController.InvoicePDF)
	invoices.Get("/:id/preview", invoiceController.InvoicePreview)
	invoices.Patch("/:id/paid", invoiceController.MarkInvoicePaid)
	invoices.Delete("/:id", invoiceController.DeleteInvoice)

	// Attendance routes
	attendance := api.Group("/attendance")
	attendance.Get("/status", anyRole, attendanceController.Status)
	attendance.Post("/mark", anyRole, attendanceController.Mark)
	attendance.Post("/reset", masterOnly, attendanceController.Reset)
	attendance.Get("/window", anyRole, attendanceController.GetWindow)
	attendance.Put("/window", masterOnly, attendanceController.UpdateWindow)
	attendance.Get("/records", anyRole, attendanceController.MyRecords)
	attendance.Get("/records/all", masterOnly, attendanceController.AllRecords)
	attendance.Get("/export/excel", masterOnly, attendanceController.ExportExcel)
	attendance.Get("/export/csv", masterOnly, attendanceController.ExportCSV)
}

func FiberConfig(attendanceEngine *Attendance.Engine) {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, attendanceEngine)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3001"
	}
	app.Listen(addr)
}
