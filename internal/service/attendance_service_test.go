package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Anirudha-Sai/Event-Attendance/internal/dto"
	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func setupTestAttendanceService() (AttendanceService, *testRepos) {
	repos := newTestRepos()
	svc := NewAttendanceService(repos.repo, nil, testLogger).(*attendanceService)
	svc.now = fixedClock(testEpoch)
	return svc, repos
}

func mustScan(t *testing.T, svc AttendanceService, eventID uint64, roll string) uint64 {
	t.Helper()
	resp, err := svc.RecordScan(context.Background(), conductorA, &dto.AddScanRequest{EventID: eventID, Roll: roll})
	if err != nil {
		t.Fatalf("RecordScan(%q) failed: %v", roll, err)
	}
	return resp.ID
}

func hodAction(svc AttendanceService, id uint64, action string, version *int) (*dto.AttendanceResponse, error) {
	return svc.ApplyHodAction(context.Background(), hodH, &dto.HodActionRequest{
		AttendanceID: id,
		Action:       action,
		Version:      version,
	})
}

// ── RecordScan ──

func TestAttendanceService_RecordScan_CreatesPending(t *testing.T) {
	svc, repos := setupTestAttendanceService()

	resp, err := svc.RecordScan(context.Background(), conductorA, &dto.AddScanRequest{EventID: 7, Roll: " 21A91A0501 "})
	if err != nil {
		t.Fatalf("RecordScan failed: %v", err)
	}
	if !resp.OK || resp.ID == 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	rec, _ := repos.attendance.GetByID(context.Background(), resp.ID)
	if rec.Status != model.StatusPending {
		t.Errorf("status = %s, want Pending", rec.Status)
	}
	if rec.Roll != "21A91A0501" {
		t.Errorf("roll = %q, want trimmed value", rec.Roll)
	}
	if rec.ConductorID != conductorA.ID {
		t.Errorf("conductor = %d, want %d", rec.ConductorID, conductorA.ID)
	}
	if rec.HodID != nil || rec.HodActionAt != nil {
		t.Error("fresh scan must not carry hod fields")
	}
	if rec.Version != 1 {
		t.Errorf("version = %d, want 1", rec.Version)
	}
}

func TestAttendanceService_RecordScan_UnknownRollAndEvent(t *testing.T) {
	svc, repos := setupTestAttendanceService()

	id := mustScan(t, svc, 404, "ZZZ999")

	rows, err := svc.ListForEvent(context.Background(), hodH, 404)
	if err != nil {
		t.Fatalf("ListForEvent failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != id {
		t.Fatalf("expected the single scan, got %+v", rows)
	}
	if rows[0].StudentName != nil || rows[0].StudentBranch != nil {
		t.Error("unknown roll must have nil name and branch")
	}
	if repos.attendance.count() != 1 {
		t.Errorf("count = %d, want 1", repos.attendance.count())
	}
}

func TestAttendanceService_RecordScan_EmptyRoll(t *testing.T) {
	svc, repos := setupTestAttendanceService()

	for _, roll := range []string{"", "   ", "\t"} {
		_, err := svc.RecordScan(context.Background(), conductorA, &dto.AddScanRequest{EventID: 1, Roll: roll})
		if !errors.Is(err, pkgerrors.ErrInvalidInput) {
			t.Errorf("roll %q: expected InvalidInput, got %v", roll, err)
		}
	}
	if repos.attendance.count() != 0 {
		t.Errorf("empty roll must not write, count = %d", repos.attendance.count())
	}
}

func TestAttendanceService_RecordScan_LongRoll(t *testing.T) {
	svc, repos := setupTestAttendanceService()
	roster, _ := setupTestRosterService()
	roll := strings.Repeat("R", 300)

	lookup, err := roster.Lookup(context.Background(), conductorA, roll)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if lookup.Name != nil {
		t.Errorf("long roll should be unknown, got %+v", lookup)
	}

	id := mustScan(t, svc, 1, roll)
	rec, err := repos.attendance.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if rec.Roll != roll {
		t.Errorf("roll stored with length %d, want %d", len(rec.Roll), len(roll))
	}
}

func TestAttendanceService_RecordScan_DuplicatesAllowed(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	first := mustScan(t, svc, 1, "R1")
	second := mustScan(t, svc, 1, "R1")
	if first == second {
		t.Fatal("each scan must get its own record")
	}

	rows, _ := svc.ListForEvent(context.Background(), conductorA, 1)
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
}

func TestAttendanceService_RecordScan_RoleIsolation(t *testing.T) {
	svc, repos := setupTestAttendanceService()

	_, err := svc.RecordScan(context.Background(), hodH, &dto.AddScanRequest{EventID: 1, Roll: "R1"})
	if !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Errorf("hod scan: expected Unauthorized, got %v", err)
	}
	_, err = svc.RecordScan(context.Background(), nil, &dto.AddScanRequest{EventID: 1, Roll: "R1"})
	if !errors.Is(err, pkgerrors.ErrUnauthenticated) {
		t.Errorf("anonymous scan: expected Unauthenticated, got %v", err)
	}
	if repos.attendance.count() != 0 {
		t.Error("rejected scans must not write")
	}
}

// ── ApplyHodAction ──

func TestAttendanceService_ApplyHodAction_AllTransitions(t *testing.T) {
	statuses := []model.AttendanceStatus{model.StatusPending, model.StatusApproved, model.StatusRejected}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				svc, _ := setupTestAttendanceService()
				id := mustScan(t, svc, 1, "R1")

				if from != model.StatusPending {
					if _, err := hodAction(svc, id, string(from), nil); err != nil {
						t.Fatalf("setup action failed: %v", err)
					}
				}

				rec, err := hodAction(svc, id, string(to), nil)
				if err != nil {
					t.Fatalf("ApplyHodAction failed: %v", err)
				}
				if rec.Status != string(to) {
					t.Errorf("status = %s, want %s", rec.Status, to)
				}
				if rec.HodID == nil || *rec.HodID != hodH.ID {
					t.Errorf("hod_id = %v, want %d", rec.HodID, hodH.ID)
				}
				if rec.HodActionAt == nil {
					t.Error("hod_action_at must be set with hod_id")
				}
			})
		}
	}
}

func TestAttendanceService_ApplyHodAction_Idempotent(t *testing.T) {
	svc, _ := setupTestAttendanceService()
	id := mustScan(t, svc, 1, "R1")

	first, err := hodAction(svc, id, "Approved", nil)
	if err != nil {
		t.Fatalf("first action failed: %v", err)
	}
	second, err := hodAction(svc, id, "Approved", nil)
	if err != nil {
		t.Fatalf("second action failed: %v", err)
	}

	if second.Status != "Approved" || second.Status != first.Status {
		t.Errorf("status drifted: %s then %s", first.Status, second.Status)
	}
	if *second.HodActionAt == *first.HodActionAt {
		t.Error("repeated action must re-stamp hod_action_at")
	}
	if second.Version != first.Version+1 {
		t.Errorf("version = %d, want %d", second.Version, first.Version+1)
	}
}

func TestAttendanceService_ApplyHodAction_ConductorDenied(t *testing.T) {
	svc, repos := setupTestAttendanceService()
	id := mustScan(t, svc, 1, "R1")

	_, err := svc.ApplyHodAction(context.Background(), conductorA, &dto.HodActionRequest{AttendanceID: id, Action: "Approved"})
	if !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}

	rec, _ := repos.attendance.GetByID(context.Background(), id)
	if rec.Status != model.StatusPending || rec.HodID != nil {
		t.Errorf("record changed by a denied action: %+v", rec)
	}
}

func TestAttendanceService_ApplyHodAction_NotFound(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	_, err := hodAction(svc, 999, "Approved", nil)
	if !errors.Is(err, ErrAttendanceNotFound) || !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestAttendanceService_ApplyHodAction_UnknownActionIsNoop(t *testing.T) {
	svc, repos := setupTestAttendanceService()
	id := mustScan(t, svc, 1, "R1")

	for _, action := range []string{"Maybe", "approved", "", "REJECTED"} {
		rec, err := hodAction(svc, id, action, nil)
		if err != nil {
			t.Fatalf("action %q: expected success, got %v", action, err)
		}
		if rec.Status != "Pending" || rec.HodID != nil || rec.Version != 1 {
			t.Errorf("action %q changed the record: %+v", action, rec)
		}
	}
	if repos.attendance.updates != 0 {
		t.Errorf("unknown actions must not write, updates = %d", repos.attendance.updates)
	}
}

func TestAttendanceService_ApplyHodAction_VersionConflict(t *testing.T) {
	svc, _ := setupTestAttendanceService()
	id := mustScan(t, svc, 1, "R1")

	v1 := 1
	rec, err := hodAction(svc, id, "Approved", &v1)
	if err != nil {
		t.Fatalf("CAS with current version failed: %v", err)
	}
	if rec.Version != 2 {
		t.Errorf("version = %d, want 2", rec.Version)
	}

	_, err = hodAction(svc, id, "Rejected", &v1)
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("stale version: expected OptimisticLock, got %v", err)
	}

	// without a version the last writer wins
	rec, err = hodAction(svc, id, "Rejected", nil)
	if err != nil {
		t.Fatalf("unversioned action failed: %v", err)
	}
	if rec.Status != "Rejected" {
		t.Errorf("status = %s, want Rejected", rec.Status)
	}
}

// ── ListForEvent ──

func TestAttendanceService_ListForEvent_NewestFirstWithRoster(t *testing.T) {
	svc, repos := setupTestAttendanceService()
	repos.students.add("R1", "Asha", "CSE")

	older := mustScan(t, svc, 5, "R1")
	newer := mustScan(t, svc, 5, "R2")
	mustScan(t, svc, 6, "R1")

	rows, err := svc.ListForEvent(context.Background(), conductorB, 5)
	if err != nil {
		t.Fatalf("ListForEvent failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != newer || rows[1].ID != older {
		t.Errorf("order = [%d %d], want [%d %d]", rows[0].ID, rows[1].ID, newer, older)
	}
	if rows[1].StudentName == nil || *rows[1].StudentName != "Asha" {
		t.Errorf("known roll not enriched: %+v", rows[1])
	}
	if rows[0].StudentName != nil {
		t.Error("unknown roll must not be enriched")
	}
}

func TestAttendanceService_ListForEvent_Anonymous(t *testing.T) {
	svc, _ := setupTestAttendanceService()

	_, err := svc.ListForEvent(context.Background(), nil, 1)
	if !errors.Is(err, pkgerrors.ErrUnauthenticated) {
		t.Errorf("expected Unauthenticated, got %v", err)
	}
}
