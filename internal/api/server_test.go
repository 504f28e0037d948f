package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sohayok/sohayok/internal/core"
	"github.com/sohayok/sohayok/internal/dispatch"
	"github.com/sohayok/sohayok/internal/handlers"
	"github.com/sohayok/sohayok/internal/intent"
	"github.com/sohayok/sohayok/internal/school"
	"github.com/sohayok/sohayok/internal/storage"
)

func testServer(t *testing.T) (*Server, *storage.PersonStore) {
	t.Helper()

	db, err := storage.Open(storage.Config{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	people := storage.NewPersonStore(db)
	exchanges := storage.NewExchangeStore(db)
	students := storage.NewStudentStore(db)
	settings := storage.NewSettingsStore(db)

	registry := handlers.NewRegistry()
	registry.Register(core.IntentGreeting, handlers.NewGreetingHandler())
	registry.Register(core.IntentUnknown, handlers.NewUnknownHandler())
	registry.Register(core.IntentCommand, handlers.NewUnknownHandler())

	dispatcher := dispatch.New(intent.NewClassifier(intent.NewCatalog()), registry, people, exchanges, nil)
	schoolSvc := school.NewService(students, school.Config{SchoolName: "Shapla Primary"}, nil)

	srv := New(Config{
		Host:            "127.0.0.1",
		Port:            0,
		Dispatcher:      dispatcher,
		School:          schoolSvc,
		PersonStore:     people,
		ExchangeStore:   exchanges,
		SettingsStore:   settings,
		DefaultLanguage: core.LangBangla,
	})

	return srv, people
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Router(), "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestChat(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Router(), "POST", "/api/v1/chat", chatRequest{Text: "hello", Language: "en"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Response != "Hello! I'm your robot assistant. I'm ready to help you." {
		t.Errorf("unexpected response: %q", resp.Response)
	}
	if resp.Language != core.LangEnglish {
		t.Errorf("expected en, got %s", resp.Language)
	}
}

func TestChat_DefaultsToBangla(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Router(), "POST", "/api/v1/chat", chatRequest{Text: "হ্যালো"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp chatResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Language != core.LangBangla {
		t.Errorf("expected bn, got %s", resp.Language)
	}
}

func TestChat_RequiresText(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Router(), "POST", "/api/v1/chat", chatRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestExchangesListedAfterChat(t *testing.T) {
	srv, _ := testServer(t)

	doJSON(t, srv.Router(), "POST", "/api/v1/chat", chatRequest{Text: "hello", Language: "en", Caller: "Rahim"})

	rec := doJSON(t, srv.Router(), "GET", "/api/v1/exchanges?caller=Rahim", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var exchanges []core.Exchange
	if err := json.NewDecoder(rec.Body).Decode(&exchanges); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(exchanges) != 1 {
		t.Fatalf("expected 1 exchange, got %d", len(exchanges))
	}
	if exchanges[0].IntentKind != core.IntentGreeting {
		t.Errorf("expected greeting, got %s", exchanges[0].IntentKind)
	}
}

func TestPeopleLifecycle(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	rec := doJSON(t, router, "POST", "/api/v1/people", core.Person{Name: "Rahim", Role: core.RoleTeacher})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate name conflicts.
	rec = doJSON(t, router, "POST", "/api/v1/people", core.Person{Name: "Rahim"})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, "PUT", "/api/v1/people/Rahim/role", map[string]string{"role": "principal"})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/v1/people", nil)
	var people []core.Person
	json.NewDecoder(rec.Body).Decode(&people)
	if len(people) != 1 || people[0].Role != core.RolePrincipal {
		t.Errorf("unexpected people list: %+v", people)
	}
}

func TestSchoolEndpoints_PermissionGated(t *testing.T) {
	srv, people := testServer(t)
	router := srv.Router()

	if err := people.Create(&core.Person{Name: "Rahim", Role: core.RoleTeacher}); err != nil {
		t.Fatalf("failed to create teacher: %v", err)
	}
	if err := people.Create(&core.Person{Name: "Anwar", Role: core.RolePrincipal}); err != nil {
		t.Fatalf("failed to create principal: %v", err)
	}

	type registerReq struct {
		Caller  string       `json:"caller"`
		Student core.Student `json:"student"`
	}

	// Anonymous caller cannot register students.
	rec := doJSON(t, router, "POST", "/api/v1/school/students", registerReq{
		Student: core.Student{Name: "Ayesha", StudentID: "S-1"},
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for anonymous, got %d", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/api/v1/school/students", registerReq{
		Caller:  "Rahim",
		Student: core.Student{Name: "Ayesha", StudentID: "S-1", ClassName: "5A"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for teacher, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, "POST", "/api/v1/school/attendance", map[string]string{
		"caller": "Rahim", "student_id": "S-1", "status": "present",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Teachers cannot pull reports; the principal can.
	rec = doJSON(t, router, "GET", "/api/v1/school/reports/attendance?caller=Rahim", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for teacher report, got %d", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/v1/school/reports/attendance?caller=Anwar", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for principal report, got %d", rec.Code)
	}

	var report core.AttendanceReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.Present != 1 {
		t.Errorf("expected 1 present, got %d", report.Present)
	}
}

func TestSchoolStatus(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv.Router(), "GET", "/api/v1/school/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status school.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.SchoolName != "Shapla Primary" {
		t.Errorf("unexpected school name: %q", status.SchoolName)
	}
}

func TestSettings_WriteNeedsSystemControl(t *testing.T) {
	srv, people := testServer(t)
	router := srv.Router()

	if err := people.Create(&core.Person{Name: "Rahim", Role: core.RoleTeacher, Language: core.LangBangla}); err != nil {
		t.Fatalf("failed to seed teacher: %v", err)
	}
	if err := people.Create(&core.Person{Name: "Anwar", Role: core.RolePrincipal, Language: core.LangBangla}); err != nil {
		t.Fatalf("failed to seed principal: %v", err)
	}

	body := map[string]string{"caller": "Rahim", "value": "quiet"}
	rec := doJSON(t, router, "PUT", "/api/v1/settings/voice_mode", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for teacher, got %d", rec.Code)
	}

	body["caller"] = "Anwar"
	rec = doJSON(t, router, "PUT", "/api/v1/settings/voice_mode", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for principal, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, "GET", "/api/v1/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var settings map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&settings); err != nil {
		t.Fatalf("failed to decode settings: %v", err)
	}
	if settings["voice_mode"] != "quiet" {
		t.Errorf("expected voice_mode=quiet, got %q", settings["voice_mode"])
	}
}
