package Attendance

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/pkg/errors"

	"Helios/Auth"
	"Helios/Models"
)

// ErrPermissionDenied is raised before any remote call when the requester's
// role does not pass the gate for the operation.
var ErrPermissionDenied = errors.New("permission denied")

// Writer is the thin attendance persistence layer: one upsert and two reads,
// each a single round-trip to the store.
type Writer struct {
	Store Models.Store
}

func NewWriter(store Models.Store) *Writer {
	return &Writer{Store: store}
}

// MarkAttendance upserts the single attendance record for (userID, today):
//
//   - no record yet: create one with timeIn = now and status present
//   - record without timeOut: this mark is the clock-out, set timeOut
//   - record with timeOut: no-op, return the existing record unchanged
//
// The existence check is a read followed by a write, not a conditional
// write, so two simultaneous sessions for the same user can both create a
// record. That matches the reference behavior; a transactional write would
// close the gap if exactly-once is ever required.
func (w *Writer) MarkAttendance(ctx context.Context, userID, userName string, now time.Time) (Models.AttendanceRecord, error) {
	today := OrgDay(now)

	records, err := w.GetUserAttendance(ctx, userID)
	if err != nil {
		return Models.AttendanceRecord{}, err
	}

	for _, record := range records {
		if record.Date != today {
			continue
		}
		if record.TimeOut != "" {
			return record, nil
		}
		record.TimeOut = OrgClock(now)
		record.Status = Models.AttendancePresent
		err := w.Store.Update(ctx, Models.AttendancePath+"/"+record.ID, map[string]interface{}{
			"time_out": record.TimeOut,
			"status":   record.Status,
		})
		if err != nil {
			return Models.AttendanceRecord{}, errors.Wrap(err, "set time out")
		}
		return record, nil
	}

	record := Models.AttendanceRecord{
		UserID:   userID,
		UserName: userName,
		Date:     today,
		TimeIn:   OrgClock(now),
		Status:   Models.AttendancePresent,
	}
	key, err := w.Store.PushNewChild(ctx, Models.AttendancePath, record)
	if err != nil {
		return Models.AttendanceRecord{}, errors.Wrap(err, "create attendance record")
	}
	record.ID = key
	err = w.Store.Update(ctx, Models.AttendancePath+"/"+key, map[string]interface{}{"id": key})
	if err != nil {
		return Models.AttendanceRecord{}, errors.Wrap(err, "assign attendance record id")
	}
	return record, nil
}

// GetUserAttendance returns all attendance records for userID, newest day
// first.
func (w *Writer) GetUserAttendance(ctx context.Context, userID string) ([]Models.AttendanceRecord, error) {
	raw, err := w.Store.QueryByEqualField(ctx, Models.AttendancePath, "user_id", userID)
	if err != nil {
		return nil, errors.Wrap(err, "query attendance")
	}
	return decodeRecords(raw)
}

// GetAllAttendance returns every attendance record. Restricted to
// master_admin; the gate runs before the remote call so a bad requester
// fails fast without touching the store.
func (w *Writer) GetAllAttendance(ctx context.Context, requester Models.Role) ([]Models.AttendanceRecord, error) {
	if !Auth.IsAuthorized(requester, []Models.Role{Models.RoleMasterAdmin}) {
		return nil, ErrPermissionDenied
	}

	var all map[string]json.RawMessage
	found, err := w.Store.Read(ctx, Models.AttendancePath, &all)
	if err != nil {
		return nil, errors.Wrap(err, "read attendance")
	}
	if !found {
		return []Models.AttendanceRecord{}, nil
	}
	return decodeRecords(all)
}

func decodeRecords(raw map[string]json.RawMessage) ([]Models.AttendanceRecord, error) {
	records := make([]Models.AttendanceRecord, 0, len(raw))
	for key, value := range raw {
		var record Models.AttendanceRecord
		if err := json.Unmarshal(value, &record); err != nil {
			return nil, errors.Wrapf(err, "decode attendance record %s", key)
		}
		if record.ID == "" {
			record.ID = key
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].TimeIn > records[j].TimeIn
	})
	return records, nil
}
