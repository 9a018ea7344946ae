package Attendance

import (
	"context"
	"errors"
	"testing"

	"Helios/Models"
)

func TestMarkAttendanceUpsert(t *testing.T) {
	store := Models.NewMemStore()
	writer := NewWriter(store)
	ctx := context.Background()

	first, err := writer.MarkAttendance(ctx, "u1", "Asha", istTime(9, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if first.Date != "2026-03-10" || first.TimeIn != "09:00:00" || first.TimeOut != "" {
		t.Errorf("first mark = %+v", first)
	}

	// Second mark of the day is the clock-out.
	second, err := writer.MarkAttendance(ctx, "u1", "Asha", istTime(17, 30, 0))
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || second.TimeOut != "17:30:00" || second.Status != Models.AttendancePresent {
		t.Errorf("second mark = %+v", second)
	}

	// Third mark is idempotent: no error, no new record, nothing mutated.
	third, err := writer.MarkAttendance(ctx, "u1", "Asha", istTime(18, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if third.ID != first.ID || third.TimeOut != "17:30:00" {
		t.Errorf("third mark = %+v", third)
	}

	records, err := writer.GetUserAttendance(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records for the day, want 1", len(records))
	}
}

func TestMarkAttendanceNewDayNewRecord(t *testing.T) {
	store := Models.NewMemStore()
	writer := NewWriter(store)
	ctx := context.Background()

	if _, err := writer.MarkAttendance(ctx, "u1", "Asha", istTime(9, 0, 0)); err != nil {
		t.Fatal(err)
	}
	nextDay := istTime(9, 0, 0).AddDate(0, 0, 1)
	if _, err := writer.MarkAttendance(ctx, "u1", "Asha", nextDay); err != nil {
		t.Fatal(err)
	}

	records, err := writer.GetUserAttendance(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest day first.
	if records[0].Date != "2026-03-11" || records[1].Date != "2026-03-10" {
		t.Errorf("order = %s, %s", records[0].Date, records[1].Date)
	}
}

func TestMarkAttendanceDoesNotMixUsers(t *testing.T) {
	store := Models.NewMemStore()
	writer := NewWriter(store)
	ctx := context.Background()

	if _, err := writer.MarkAttendance(ctx, "u1", "Asha", istTime(9, 0, 0)); err != nil {
		t.Fatal(err)
	}
	other, err := writer.MarkAttendance(ctx, "u2", "Ravi", istTime(9, 5, 0))
	if err != nil {
		t.Fatal(err)
	}
	if other.TimeOut != "" {
		t.Errorf("u2's first mark reused u1's record: %+v", other)
	}
}

func TestGetAllAttendanceGate(t *testing.T) {
	store := Models.NewMemStore()
	writer := NewWriter(store)
	ctx := context.Background()

	if _, err := writer.MarkAttendance(ctx, "u1", "Asha", istTime(9, 0, 0)); err != nil {
		t.Fatal(err)
	}

	// Denied roles fail fast, before the store is touched.
	store.ReadErr = errors.New("store must not be read")
	for _, role := range []Models.Role{Models.RoleAdmin, Models.RoleEmployee, ""} {
		if _, err := writer.GetAllAttendance(ctx, role); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("GetAllAttendance(%q) err = %v, want ErrPermissionDenied", role, err)
		}
	}
	store.ReadErr = nil

	records, err := writer.GetAllAttendance(ctx, Models.RoleMasterAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestGetAttendanceAbsentIsEmpty(t *testing.T) {
	store := Models.NewMemStore()
	writer := NewWriter(store)
	ctx := context.Background()

	records, err := writer.GetUserAttendance(ctx, "nobody")
	if err != nil || len(records) != 0 {
		t.Errorf("GetUserAttendance = (%v, %v), want empty and nil", records, err)
	}
	all, err := writer.GetAllAttendance(ctx, Models.RoleMasterAdmin)
	if err != nil || len(all) != 0 {
		t.Errorf("GetAllAttendance = (%v, %v), want empty and nil", all, err)
	}
}
