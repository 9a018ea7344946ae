package Exports

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Helios/Models"
)

func sampleRecords() []Models.AttendanceRecord {
	return []Models.AttendanceRecord{
		{ID: "r1", UserID: "u1", UserName: "Asha Verma", Date: "2026-03-10", TimeIn: "09:02:11", TimeOut: "18:05:40", Status: "present"},
		{ID: "r2", UserID: "u2", UserName: "Ravi Nair", Date: "2026-03-10", TimeIn: "09:31:00", Status: "present"},
	}
}

func TestAttendanceCSV(t *testing.T) {
	data, err := AttendanceCSV(sampleRecords())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"date", "user_id", "user_name", "time_in", "time_out", "status"}, rows[0])
	require.Equal(t, "Asha Verma", rows[1][2])
	// open records have no time_out yet
	require.Equal(t, "", rows[2][4])
}

func TestCustomersCSV(t *testing.T) {
	customers := []Models.Customer{
		{ID: "c1", Name: "Surya Traders", Address: "14 MG Road", Phone: "+91 98000 11223", Email: "office@suryatraders.example", Notes: "prefers morning delivery"},
	}
	data, err := CustomersCSV(customers)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Surya Traders", rows[1][0])
	require.Equal(t, "office@suryatraders.example", rows[1][3])
}

func TestAttendanceWorkbook(t *testing.T) {
	data, err := AttendanceWorkbook(sampleRecords())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	require.Equal(t, "Date", rows[0][0])
	require.Equal(t, "Asha Verma", rows[1][1])
	require.Equal(t, "09:31:00", rows[2][2])
}

func TestInvoicePDF(t *testing.T) {
	invoice := Models.Invoice{
		ID:           "inv-001",
		QuotationID:  "q-100",
		CustomerName: "Surya Traders",
		Date:         "2026-03-10",
		Items: []Models.LineItem{
			{Description: "450W Mono Panel", Quantity: 10, UnitPrice: 9500},
			{Description: "5kW Hybrid Inverter", Quantity: 1, UnitPrice: 82000},
		},
		Total: 177000,
		Paid:  true,
	}
	data, err := InvoicePDF(invoice)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	require.Greater(t, len(data), 500)
}
