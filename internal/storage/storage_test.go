package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/sohayok/sohayok/internal/core"
)

// testDB creates an in-memory database with migrations applied.
func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestPersonStore_CreateAndGet(t *testing.T) {
	db := testDB(t)
	store := NewPersonStore(db)

	p := &core.Person{Name: "Rahim", Role: core.RoleTeacher, Language: core.LangBangla}
	if err := store.Create(p); err != nil {
		t.Fatalf("failed to create person: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected ID to be set after create")
	}

	got, err := store.GetByName("Rahim")
	if err != nil {
		t.Fatalf("failed to get person: %v", err)
	}
	if got == nil {
		t.Fatal("expected person, got nil")
	}
	if got.Role != core.RoleTeacher {
		t.Errorf("expected role teacher, got %s", got.Role)
	}
	if got.Language != core.LangBangla {
		t.Errorf("expected language bn, got %s", got.Language)
	}
}

func TestPersonStore_Defaults(t *testing.T) {
	db := testDB(t)
	store := NewPersonStore(db)

	if err := store.Create(&core.Person{Name: "Visitor"}); err != nil {
		t.Fatalf("failed to create person: %v", err)
	}

	got, err := store.GetByName("Visitor")
	if err != nil {
		t.Fatalf("failed to get person: %v", err)
	}
	if got.Role != core.RoleFriend {
		t.Errorf("expected default role friend, got %s", got.Role)
	}
	if got.Language != core.LangBangla {
		t.Errorf("expected default language bn, got %s", got.Language)
	}
}

func TestPersonStore_DuplicateName(t *testing.T) {
	db := testDB(t)
	store := NewPersonStore(db)

	if err := store.Create(&core.Person{Name: "Karim"}); err != nil {
		t.Fatalf("failed to create person: %v", err)
	}
	err := store.Create(&core.Person{Name: "Karim"})
	if !errors.Is(err, core.ErrPersonExists) {
		t.Errorf("expected ErrPersonExists, got %v", err)
	}
}

func TestPersonStore_GetUnknownReturnsNil(t *testing.T) {
	db := testDB(t)
	store := NewPersonStore(db)

	got, err := store.GetByName("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown person, got %+v", got)
	}
}

func TestPersonStore_Touch(t *testing.T) {
	db := testDB(t)
	store := NewPersonStore(db)

	if err := store.Create(&core.Person{Name: "Fatema"}); err != nil {
		t.Fatalf("failed to create person: %v", err)
	}

	if err := store.Touch("Fatema"); err != nil {
		t.Fatalf("failed to touch person: %v", err)
	}
	if err := store.Touch("Fatema"); err != nil {
		t.Fatalf("failed to touch person: %v", err)
	}

	got, err := store.GetByName("Fatema")
	if err != nil {
		t.Fatalf("failed to get person: %v", err)
	}
	if got.InteractionCount != 2 {
		t.Errorf("expected interaction count 2, got %d", got.InteractionCount)
	}
}

func TestPersonStore_SetRole(t *testing.T) {
	db := testDB(t)
	store := NewPersonStore(db)

	if err := store.Create(&core.Person{Name: "Nadia"}); err != nil {
		t.Fatalf("failed to create person: %v", err)
	}
	if err := store.SetRole("Nadia", core.RolePrincipal); err != nil {
		t.Fatalf("failed to set role: %v", err)
	}

	got, _ := store.GetByName("Nadia")
	if got.Role != core.RolePrincipal {
		t.Errorf("expected role principal, got %s", got.Role)
	}
}

func TestExchangeStore_AppendAndRecent(t *testing.T) {
	db := testDB(t)
	store := NewExchangeStore(db)

	for i, text := range []string{"hello", "tell me a joke", "গান শোনাও"} {
		e := &core.Exchange{
			Timestamp:        time.Now().Add(time.Duration(i) * time.Second),
			Caller:           "Rahim",
			InputText:        text,
			InputLanguage:    core.LangEnglish,
			IntentKind:       core.IntentGreeting,
			Confidence:       1.0,
			ResponseText:     "hi",
			ResponseLanguage: core.LangEnglish,
			Outcome:          core.OutcomeOK,
		}
		if err := store.Append(e); err != nil {
			t.Fatalf("failed to append exchange: %v", err)
		}
		if e.ID == "" {
			t.Error("expected ID to be set after append")
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("failed to list recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(recent))
	}
	if recent[0].InputText != "গান শোনাও" {
		t.Errorf("expected newest exchange first, got %q", recent[0].InputText)
	}
}

func TestExchangeStore_AnonymousCaller(t *testing.T) {
	db := testDB(t)
	store := NewExchangeStore(db)

	e := &core.Exchange{
		InputText:     "who are you",
		InputLanguage: core.LangEnglish,
		IntentKind:    core.IntentUnknown,
		Outcome:       core.OutcomeNoMatch,
	}
	if err := store.Append(e); err != nil {
		t.Fatalf("failed to append exchange: %v", err)
	}

	recent, err := store.Recent(1)
	if err != nil {
		t.Fatalf("failed to list recent: %v", err)
	}
	if recent[0].Caller != "" {
		t.Errorf("expected empty caller, got %q", recent[0].Caller)
	}
}

func TestExchangeStore_CountByOutcome(t *testing.T) {
	db := testDB(t)
	store := NewExchangeStore(db)

	outcomes := []core.Outcome{core.OutcomeOK, core.OutcomeOK, core.OutcomePermissionDenied}
	for _, o := range outcomes {
		e := &core.Exchange{
			InputText:     "x",
			InputLanguage: core.LangEnglish,
			IntentKind:    core.IntentMovement,
			Outcome:       o,
		}
		if err := store.Append(e); err != nil {
			t.Fatalf("failed to append exchange: %v", err)
		}
	}

	counts, err := store.CountByOutcome()
	if err != nil {
		t.Fatalf("failed to count by outcome: %v", err)
	}
	if counts[core.OutcomeOK] != 2 {
		t.Errorf("expected 2 ok, got %d", counts[core.OutcomeOK])
	}
	if counts[core.OutcomePermissionDenied] != 1 {
		t.Errorf("expected 1 permission_denied, got %d", counts[core.OutcomePermissionDenied])
	}
}

func TestStudentStore_RegisterAndGet(t *testing.T) {
	db := testDB(t)
	store := NewStudentStore(db)

	st := &core.Student{Name: "Ayesha", StudentID: "S-101", Grade: "5", ClassName: "5A"}
	if err := store.Register(st); err != nil {
		t.Fatalf("failed to register student: %v", err)
	}

	got, err := store.GetByStudentID("S-101")
	if err != nil {
		t.Fatalf("failed to get student: %v", err)
	}
	if got.Name != "Ayesha" {
		t.Errorf("expected name Ayesha, got %s", got.Name)
	}
	if got.AttendanceCount != 0 {
		t.Errorf("expected attendance count 0, got %d", got.AttendanceCount)
	}
}

func TestStudentStore_DuplicateStudentID(t *testing.T) {
	db := testDB(t)
	store := NewStudentStore(db)

	if err := store.Register(&core.Student{Name: "A", StudentID: "S-1"}); err != nil {
		t.Fatalf("failed to register student: %v", err)
	}
	err := store.Register(&core.Student{Name: "B", StudentID: "S-1"})
	if !errors.Is(err, core.ErrStudentExists) {
		t.Errorf("expected ErrStudentExists, got %v", err)
	}
}

func TestStudentStore_RecordAttendance(t *testing.T) {
	db := testDB(t)
	store := NewStudentStore(db)

	if err := store.Register(&core.Student{Name: "Hasan", StudentID: "S-7", ClassName: "3B"}); err != nil {
		t.Fatalf("failed to register student: %v", err)
	}

	rec := &core.AttendanceRecord{StudentID: "S-7", Date: "2026-08-30", Status: core.AttendancePresent}
	if err := store.RecordAttendance(rec); err != nil {
		t.Fatalf("failed to record attendance: %v", err)
	}

	got, _ := store.GetByStudentID("S-7")
	if got.AttendanceCount != 1 {
		t.Errorf("expected attendance count 1, got %d", got.AttendanceCount)
	}

	// Re-marking the same day as absent replaces the record and reverses the count.
	rec2 := &core.AttendanceRecord{StudentID: "S-7", Date: "2026-08-30", Status: core.AttendanceAbsent}
	if err := store.RecordAttendance(rec2); err != nil {
		t.Fatalf("failed to re-record attendance: %v", err)
	}

	got, _ = store.GetByStudentID("S-7")
	if got.AttendanceCount != 0 {
		t.Errorf("expected attendance count 0 after correction, got %d", got.AttendanceCount)
	}

	records, err := store.AttendanceFor("2026-08-30", "3B")
	if err != nil {
		t.Fatalf("failed to query attendance: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Status != core.AttendanceAbsent {
		t.Errorf("expected status absent, got %s", records[0].Status)
	}
}

func TestStudentStore_AttendanceUnknownStudent(t *testing.T) {
	db := testDB(t)
	store := NewStudentStore(db)

	err := store.RecordAttendance(&core.AttendanceRecord{StudentID: "ghost", Date: "2026-08-30", Status: core.AttendancePresent})
	if !errors.Is(err, core.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestSettingsStore_SetGet(t *testing.T) {
	db := testDB(t)
	store := NewSettingsStore(db)

	if err := store.Set("default_language", "bn"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := store.Set("default_language", "en"); err != nil {
		t.Fatalf("failed to overwrite: %v", err)
	}

	got, err := store.Get("default_language")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got != "en" {
		t.Errorf("expected en, got %s", got)
	}

	_, err = store.Get("missing")
	if !errors.Is(err, core.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	if v := store.GetOr("missing", "fallback"); v != "fallback" {
		t.Errorf("expected fallback, got %s", v)
	}
}
