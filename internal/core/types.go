// Package core defines the fundamental types for sohayok.
package core

import (
	"time"
)

// -----------------------------------------------------------------------------
// LANGUAGE - The two languages the assistant speaks
// -----------------------------------------------------------------------------

// Language is an ISO-639-1 language code.
type Language string

const (
	LangBangla  Language = "bn"
	LangEnglish Language = "en"
)

// Valid reports whether the language is one of the two supported codes.
func (l Language) Valid() bool {
	return l == LangBangla || l == LangEnglish
}

// -----------------------------------------------------------------------------
// INTENT - What the speaker wants
// -----------------------------------------------------------------------------

// IntentKind is the closed vocabulary of actions the assistant recognizes.
// Declaration order is the tie-break order during classification: when two
// kinds score equal confidence, the one declared first wins.
type IntentKind string

const (
	IntentGreeting        IntentKind = "greeting"
	IntentFaceRecognition IntentKind = "face_recognition"
	IntentQuestion        IntentKind = "question"
	IntentCommand         IntentKind = "command"
	IntentEntertainment   IntentKind = "entertainment"
	IntentCameraCapture   IntentKind = "camera_capture"
	IntentMovement        IntentKind = "movement"
	IntentSearch          IntentKind = "search"
	IntentUnknown         IntentKind = "unknown"
)

// IntentKinds lists every kind except Unknown, in tie-break order.
// Recognition precedes question so "who am i" resolves to the camera rather
// than the interrogative pattern it also matches.
var IntentKinds = []IntentKind{
	IntentGreeting,
	IntentFaceRecognition,
	IntentQuestion,
	IntentCommand,
	IntentEntertainment,
	IntentCameraCapture,
	IntentMovement,
	IntentSearch,
}

// Intent is one classified utterance. It is immutable once produced and is
// never persisted directly; the dispatcher copies its kind and confidence
// into an Exchange.
type Intent struct {
	Kind       IntentKind        `json:"kind"`
	Confidence float64           `json:"confidence"` // [0,1], not a calibrated probability
	Parameters map[string]string `json:"parameters"`
	Text       string            `json:"text"` // normalized utterance
	Language   Language          `json:"language"`
}

// Param returns a parameter value, or "" if absent.
func (i *Intent) Param(key string) string {
	if i.Parameters == nil {
		return ""
	}
	return i.Parameters[key]
}

// -----------------------------------------------------------------------------
// PERSON - Who is speaking
// -----------------------------------------------------------------------------

// Role is a person's role at the school.
type Role string

const (
	RoleStudent   Role = "student"
	RoleTeacher   Role = "teacher"
	RolePrincipal Role = "principal"
	RoleAdmin     Role = "admin"
	RoleFriend    Role = "friend" // default for unknown visitors
)

// Capability is a named permission token gating an action for a role.
type Capability string

const (
	CapAskQuestions  Capability = "ask_questions"
	CapRequestHelp   Capability = "request_help"
	CapEntertainment Capability = "entertainment"
	CapTakePhotos    Capability = "take_photos"
	CapStudentInfo   Capability = "student_info"
	CapReports       Capability = "reports"
	CapSystemControl Capability = "system_control"
	CapMovement      Capability = "movement"

	// CapAll is the admin wildcard; it satisfies any capability check.
	CapAll Capability = "all_permissions"
)

// Person is a known user profile. Owned by the person store; the dispatch
// core only reads it.
type Person struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Role             Role      `json:"role"`
	Language         Language  `json:"language_preference"`
	FirstMet         time.Time `json:"first_met"`
	LastSeen         time.Time `json:"last_seen"`
	InteractionCount int       `json:"interaction_count"`
	Notes            string    `json:"notes"`
}

// -----------------------------------------------------------------------------
// EXCHANGE - One persisted user turn
// -----------------------------------------------------------------------------

// Outcome records which dispatch branch produced the response. The
// caller-visible strings for some branches look alike; the persisted
// outcome keeps them distinguishable for operators.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeWeakMatch        Outcome = "weak_match"        // kind != unknown, confidence below threshold
	OutcomeNoMatch          Outcome = "no_match"          // confidence 0, routed to the unknown handler
	OutcomePermissionDenied Outcome = "permission_denied" // short-circuited before the handler
	OutcomeHandlerFailure   Outcome = "handler_failure"   // handler error converted at the boundary
)

// Exchange is one user turn: input, classification, and eventual response.
// Created once per turn by the dispatcher and never mutated after append.
type Exchange struct {
	ID               string    `json:"id"` // UUID
	Timestamp        time.Time `json:"timestamp"`
	Caller           string    `json:"caller,omitempty"` // user name, empty if unknown
	InputText        string    `json:"input_text"`
	InputLanguage    Language  `json:"input_language"`
	IntentKind       IntentKind `json:"intent_kind"`
	Confidence       float64   `json:"confidence"`
	ResponseText     string    `json:"response_text,omitempty"` // empty represents a pending/failed exchange
	ResponseLanguage Language  `json:"response_language,omitempty"`
	Outcome          Outcome   `json:"outcome"`
}

// -----------------------------------------------------------------------------
// SCHOOL - Students and attendance
// -----------------------------------------------------------------------------

// AttendanceStatus is a student's status for one school day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Student is a registered student record.
type Student struct {
	ID              string    `json:"id"` // UUID
	Name            string    `json:"name"`
	StudentID       string    `json:"student_id"` // school-assigned ID
	Grade           string    `json:"grade"`
	ClassName       string    `json:"class_name"`
	ParentContact   string    `json:"parent_contact,omitempty"`
	RegisteredAt    time.Time `json:"registered_at"`
	AttendanceCount int       `json:"attendance_count"`
	LastSeen        time.Time `json:"last_seen"`
}

// AttendanceRecord is one student's attendance mark for one day.
type AttendanceRecord struct {
	StudentID string           `json:"student_id"`
	Date      string           `json:"date"` // YYYY-MM-DD
	Status    AttendanceStatus `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
}

// AttendanceReport summarizes one day's attendance, optionally for one class.
type AttendanceReport struct {
	Date           string             `json:"date"`
	ClassName      string             `json:"class_name,omitempty"`
	TotalStudents  int                `json:"total_students"`
	Present        int                `json:"present"`
	Absent         int                `json:"absent"`
	Late           int                `json:"late"`
	AttendanceRate float64            `json:"attendance_rate"`
	Records        []AttendanceRecord `json:"records"`
}
