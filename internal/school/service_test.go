package school

import (
	"errors"
	"testing"
	"time"

	"github.com/sohayok/sohayok/internal/core"
	"github.com/sohayok/sohayok/internal/storage"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewService(storage.NewStudentStore(db), Config{SchoolName: "Shapla Primary"}, nil)
}

func TestRegisterStudent_RequiresStudentInfo(t *testing.T) {
	svc := testService(t)
	st := &core.Student{Name: "Ayesha", StudentID: "S-1", ClassName: "5A"}

	if err := svc.RegisterStudent(core.RoleStudent, st); !errors.Is(err, core.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for student, got %v", err)
	}
	if err := svc.RegisterStudent(core.RoleTeacher, st); err != nil {
		t.Errorf("expected teacher to register, got %v", err)
	}
	if err := svc.RegisterStudent(core.RoleAdmin, &core.Student{Name: "B", StudentID: "S-2"}); err != nil {
		t.Errorf("expected admin wildcard to register, got %v", err)
	}
}

func TestRegisterStudent_Validation(t *testing.T) {
	svc := testService(t)

	err := svc.RegisterStudent(core.RoleTeacher, &core.Student{Name: "NoID"})
	if !errors.Is(err, core.ErrMissingRequired) {
		t.Errorf("expected ErrMissingRequired, got %v", err)
	}
}

func TestRecordAttendance_InvalidStatus(t *testing.T) {
	svc := testService(t)
	if err := svc.RegisterStudent(core.RoleTeacher, &core.Student{Name: "A", StudentID: "S-1"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	err := svc.RecordAttendance(core.RoleTeacher, "S-1", "vacationing")
	if !errors.Is(err, core.ErrInvalidAttendance) {
		t.Errorf("expected ErrInvalidAttendance, got %v", err)
	}
}

func TestAttendanceReport(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	}

	for _, st := range []*core.Student{
		{Name: "A", StudentID: "S-1", ClassName: "5A"},
		{Name: "B", StudentID: "S-2", ClassName: "5A"},
		{Name: "C", StudentID: "S-3", ClassName: "5A"},
		{Name: "D", StudentID: "S-4", ClassName: "6B"},
	} {
		if err := svc.RegisterStudent(core.RoleTeacher, st); err != nil {
			t.Fatalf("failed to register: %v", err)
		}
	}

	marks := map[string]core.AttendanceStatus{
		"S-1": core.AttendancePresent,
		"S-2": core.AttendanceLate,
		"S-3": core.AttendanceAbsent,
		"S-4": core.AttendancePresent,
	}
	for id, status := range marks {
		if err := svc.RecordAttendance(core.RoleTeacher, id, status); err != nil {
			t.Fatalf("failed to record attendance: %v", err)
		}
	}

	// Teachers have no reports capability.
	if _, err := svc.AttendanceReport(core.RoleTeacher, "", ""); !errors.Is(err, core.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for teacher, got %v", err)
	}

	report, err := svc.AttendanceReport(core.RolePrincipal, "", "5A")
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if report.TotalStudents != 3 {
		t.Errorf("expected 3 students in 5A, got %d", report.TotalStudents)
	}
	if report.Present != 1 || report.Late != 1 || report.Absent != 1 {
		t.Errorf("unexpected tallies: present=%d late=%d absent=%d", report.Present, report.Late, report.Absent)
	}
	// Late counts as attending.
	if want := 2.0 / 3.0; report.AttendanceRate != want {
		t.Errorf("expected rate %f, got %f", want, report.AttendanceRate)
	}
}

func TestSchoolStatus(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	}

	if err := svc.RegisterStudent(core.RoleTeacher, &core.Student{Name: "A", StudentID: "S-1"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if err := svc.RecordAttendance(core.RoleTeacher, "S-1", core.AttendancePresent); err != nil {
		t.Fatalf("failed to record attendance: %v", err)
	}

	status, err := svc.SchoolStatus()
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}
	if status.SchoolName != "Shapla Primary" {
		t.Errorf("unexpected school name: %q", status.SchoolName)
	}
	if !status.InSession {
		t.Error("expected school in session at 10:30")
	}
	if status.TotalStudents != 1 {
		t.Errorf("expected 1 student, got %d", status.TotalStudents)
	}
	if status.TodayAttendance.Present != 1 {
		t.Errorf("expected 1 present today, got %d", status.TodayAttendance.Present)
	}
}

func TestInSession_OutsideHours(t *testing.T) {
	svc := testService(t)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC)
	}

	status, err := svc.SchoolStatus()
	if err != nil {
		t.Fatalf("failed to get status: %v", err)
	}
	if status.InSession {
		t.Error("expected school out of session at 19:00")
	}
}
