// Package storage provides persistence for sohayok.
package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sohayok/sohayok/internal/core"
)

// StudentStore handles student registration and attendance persistence.
type StudentStore struct {
	db *DB
}

// NewStudentStore creates a new student store
func NewStudentStore(db *DB) *StudentStore {
	return &StudentStore{db: db}
}

// Register adds a new student. School-assigned student IDs are unique.
func (s *StudentStore) Register(st *core.Student) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.RegisteredAt.IsZero() {
		st.RegisteredAt = time.Now().UTC()
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO students (id, name, student_id, grade, class_name, parent_contact, registered_at, attendance_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, st.ID, st.Name, st.StudentID, st.Grade, st.ClassName, st.ParentContact, st.RegisteredAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return core.ErrStudentExists
		}
		return err
	}
	return nil
}

// GetByStudentID returns a student by school-assigned ID.
func (s *StudentStore) GetByStudentID(studentID string) (*core.Student, error) {
	st := &core.Student{}
	var lastSeen sql.NullTime

	err := s.db.conn.QueryRow(`
		SELECT id, name, student_id, grade, class_name, parent_contact, registered_at, attendance_count, last_seen
		FROM students WHERE student_id = ?
	`, studentID).Scan(&st.ID, &st.Name, &st.StudentID, &st.Grade, &st.ClassName,
		&st.ParentContact, &st.RegisteredAt, &st.AttendanceCount, &lastSeen)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		st.LastSeen = lastSeen.Time
	}
	return st, nil
}

// RecordAttendance marks a student's attendance for one day. Re-marking the
// same day replaces the earlier status.
func (s *StudentStore) RecordAttendance(rec *core.AttendanceRecord) error {
	if _, err := s.GetByStudentID(rec.StudentID); err != nil {
		return err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.Date == "" {
		rec.Date = rec.Timestamp.Format("2006-01-02")
	}

	return s.db.Transaction(func(tx *sql.Tx) error {
		var prev string
		err := tx.QueryRow("SELECT status FROM attendance WHERE student_id = ? AND date = ?",
			rec.StudentID, rec.Date).Scan(&prev)
		existed := err == nil
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO attendance (student_id, date, status, timestamp)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(student_id, date) DO UPDATE SET status = excluded.status, timestamp = excluded.timestamp
		`, rec.StudentID, rec.Date, rec.Status, rec.Timestamp)
		if err != nil {
			return err
		}

		// attendance_count tracks days marked present.
		delta := 0
		if rec.Status == core.AttendancePresent && (!existed || core.AttendanceStatus(prev) != core.AttendancePresent) {
			delta = 1
		} else if existed && core.AttendanceStatus(prev) == core.AttendancePresent && rec.Status != core.AttendancePresent {
			delta = -1
		}

		_, err = tx.Exec(`
			UPDATE students SET attendance_count = attendance_count + ?, last_seen = ?
			WHERE student_id = ?
		`, delta, rec.Timestamp, rec.StudentID)
		return err
	})
}

// AttendanceFor returns the attendance records for one day, optionally
// filtered to one class.
func (s *StudentStore) AttendanceFor(date, className string) ([]core.AttendanceRecord, error) {
	q := `
		SELECT a.student_id, a.date, a.status, a.timestamp
		FROM attendance a
		JOIN students st ON st.student_id = a.student_id
		WHERE a.date = ?
	`
	args := []any{date}
	if className != "" {
		q += " AND st.class_name = ?"
		args = append(args, className)
	}
	q += " ORDER BY a.timestamp"

	rows, err := s.db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []core.AttendanceRecord
	for rows.Next() {
		var rec core.AttendanceRecord
		var status string
		if err := rows.Scan(&rec.StudentID, &rec.Date, &status, &rec.Timestamp); err != nil {
			return nil, err
		}
		rec.Status = core.AttendanceStatus(status)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// List returns all students ordered by class and name.
func (s *StudentStore) List() ([]*core.Student, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, name, student_id, grade, class_name, parent_contact, registered_at, attendance_count, last_seen
		FROM students
		ORDER BY class_name, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*core.Student
	for rows.Next() {
		st := &core.Student{}
		var lastSeen sql.NullTime
		if err := rows.Scan(&st.ID, &st.Name, &st.StudentID, &st.Grade, &st.ClassName,
			&st.ParentContact, &st.RegisteredAt, &st.AttendanceCount, &lastSeen); err != nil {
			return nil, err
		}
		if lastSeen.Valid {
			st.LastSeen = lastSeen.Time
		}
		students = append(students, st)
	}

	return students, rows.Err()
}

// Count returns the number of registered students.
func (s *StudentStore) Count() (int, error) {
	var n int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM students").Scan(&n)
	return n, err
}
