// Package school implements student registration, attendance, and reporting
// for the school the robot serves.
package school

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sohayok/sohayok/internal/core"
	"github.com/sohayok/sohayok/internal/roles"
	"github.com/sohayok/sohayok/internal/storage"
)

// Config for the school service.
type Config struct {
	SchoolName string
	ClassStart string // HH:MM
	ClassEnd   string // HH:MM
}

// Status is a snapshot of the school day.
type Status struct {
	SchoolName      string     `json:"school_name"`
	CurrentTime     time.Time  `json:"current_time"`
	InSession       bool       `json:"in_session"`
	TotalStudents   int        `json:"total_students"`
	TodayAttendance StatusTally `json:"today_attendance"`
}

// StatusTally counts today's attendance marks.
type StatusTally struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	Total   int `json:"total"`
}

// Service runs the school operations. Every mutating or reporting call takes
// the caller's role and checks it against the capability table first.
type Service struct {
	students *storage.StudentStore
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the school service.
func NewService(students *storage.StudentStore, cfg Config, logger *slog.Logger) *Service {
	if cfg.SchoolName == "" {
		cfg.SchoolName = "School"
	}
	if cfg.ClassStart == "" {
		cfg.ClassStart = "08:00"
	}
	if cfg.ClassEnd == "" {
		cfg.ClassEnd = "16:00"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{students: students, cfg: cfg, logger: logger, now: time.Now}
}

// RegisterStudent adds a student. Requires the student_info capability.
func (s *Service) RegisterStudent(role core.Role, st *core.Student) error {
	if !roles.Allowed(role, core.CapStudentInfo) {
		return core.ErrPermissionDenied
	}
	if st.Name == "" || st.StudentID == "" {
		return core.ErrMissingRequired
	}

	if err := s.students.Register(st); err != nil {
		return err
	}
	s.logger.Info("student registered", "student_id", st.StudentID, "class", st.ClassName)
	return nil
}

// RecordAttendance marks attendance. Requires the student_info capability.
func (s *Service) RecordAttendance(role core.Role, studentID string, status core.AttendanceStatus) error {
	if !roles.Allowed(role, core.CapStudentInfo) {
		return core.ErrPermissionDenied
	}
	switch status {
	case core.AttendancePresent, core.AttendanceAbsent, core.AttendanceLate:
	default:
		return fmt.Errorf("%w: %q", core.ErrInvalidAttendance, status)
	}

	now := s.now()
	return s.students.RecordAttendance(&core.AttendanceRecord{
		StudentID: studentID,
		Date:      now.Format("2006-01-02"),
		Status:    status,
		Timestamp: now,
	})
}

// StudentStatus returns one student's record. Requires student_info.
func (s *Service) StudentStatus(role core.Role, studentID string) (*core.Student, error) {
	if !roles.Allowed(role, core.CapStudentInfo) {
		return nil, core.ErrPermissionDenied
	}
	return s.students.GetByStudentID(studentID)
}

// AttendanceReport builds the day's report, optionally for one class.
// Requires the reports capability. Late students count as attending.
func (s *Service) AttendanceReport(role core.Role, date, className string) (*core.AttendanceReport, error) {
	if !roles.Allowed(role, core.CapReports) {
		return nil, core.ErrPermissionDenied
	}
	if date == "" {
		date = s.now().Format("2006-01-02")
	}

	records, err := s.students.AttendanceFor(date, className)
	if err != nil {
		return nil, err
	}

	report := &core.AttendanceReport{
		Date:      date,
		ClassName: className,
		Records:   records,
	}
	for _, rec := range records {
		switch rec.Status {
		case core.AttendancePresent:
			report.Present++
		case core.AttendanceAbsent:
			report.Absent++
		case core.AttendanceLate:
			report.Late++
		}
	}
	report.TotalStudents = len(records)
	if report.TotalStudents > 0 {
		report.AttendanceRate = float64(report.Present+report.Late) / float64(report.TotalStudents)
	}

	return report, nil
}

// SchoolStatus is ungated; it exposes only aggregate numbers.
func (s *Service) SchoolStatus() (*Status, error) {
	now := s.now()

	total, err := s.students.Count()
	if err != nil {
		return nil, err
	}

	records, err := s.students.AttendanceFor(now.Format("2006-01-02"), "")
	if err != nil {
		return nil, err
	}

	var tally StatusTally
	for _, rec := range records {
		switch rec.Status {
		case core.AttendancePresent:
			tally.Present++
		case core.AttendanceAbsent:
			tally.Absent++
		case core.AttendanceLate:
			tally.Late++
		}
	}
	tally.Total = len(records)

	return &Status{
		SchoolName:      s.cfg.SchoolName,
		CurrentTime:     now,
		InSession:       s.inSession(now),
		TotalStudents:   total,
		TodayAttendance: tally,
	}, nil
}

func (s *Service) inSession(now time.Time) bool {
	start, err := time.Parse("15:04", s.cfg.ClassStart)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", s.cfg.ClassEnd)
	if err != nil {
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	return minutes >= start.Hour()*60+start.Minute() && minutes <= end.Hour()*60+end.Minute()
}
