package Exports

import (
	"bytes"
	"encoding/csv"

	"Helios/Models"
)

// AttendanceCSV renders the attendance sheet as CSV.
func AttendanceCSV(records []Models.AttendanceRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "user_id", "user_name", "time_in", "time_out", "status"}); err != nil {
		return nil, err
	}
	for _, record := range records {
		row := []string{record.Date, record.UserID, record.UserName, record.TimeIn, record.TimeOut, record.Status}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CustomersCSV renders the customer book as CSV.
func CustomersCSV(customers []Models.Customer) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "address", "phone", "email", "notes"}); err != nil {
		return nil, err
	}
	for _, customer := range customers {
		row := []string{customer.Name, customer.Address, customer.Phone, customer.Email, customer.Notes}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
