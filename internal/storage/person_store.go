// Package storage provides persistence for sohayok.
package storage

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sohayok/sohayok/internal/core"
)

// PersonStore handles person persistence. It backs the dispatcher's user
// lookup: GetByName returns (nil, nil) for an unknown name rather than an
// error, matching the conversation-store contract.
type PersonStore struct {
	db *DB
}

// NewPersonStore creates a new person store
func NewPersonStore(db *DB) *PersonStore {
	return &PersonStore{db: db}
}

// Create adds a new person. Names are unique.
func (s *PersonStore) Create(p *core.Person) error {
	now := time.Now().UTC()
	if p.FirstMet.IsZero() {
		p.FirstMet = now
	}
	if p.LastSeen.IsZero() {
		p.LastSeen = now
	}
	if p.Role == "" {
		p.Role = core.RoleFriend
	}
	if p.Language == "" {
		p.Language = core.LangBangla
	}

	res, err := s.db.conn.Exec(`
		INSERT INTO people (name, role, language_preference, first_met, last_seen, interaction_count, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Role, p.Language, p.FirstMet, p.LastSeen, p.InteractionCount, p.Notes)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return core.ErrPersonExists
		}
		return err
	}

	p.ID, _ = res.LastInsertId()
	return nil
}

// GetByName returns a person by name, or (nil, nil) if unknown.
func (s *PersonStore) GetByName(name string) (*core.Person, error) {
	p := &core.Person{}
	var lang, role string

	err := s.db.conn.QueryRow(`
		SELECT id, name, role, language_preference, first_met, last_seen, interaction_count, notes
		FROM people WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &role, &lang, &p.FirstMet, &p.LastSeen, &p.InteractionCount, &p.Notes)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Role = core.Role(role)
	p.Language = core.Language(lang)
	return p, nil
}

// Touch updates last seen and bumps the interaction count.
func (s *PersonStore) Touch(name string) error {
	res, err := s.db.conn.Exec(`
		UPDATE people
		SET last_seen = ?, interaction_count = interaction_count + 1
		WHERE name = ?
	`, time.Now().UTC(), name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrPersonNotFound
	}
	return nil
}

// SetRole changes a person's role.
func (s *PersonStore) SetRole(name string, role core.Role) error {
	res, err := s.db.conn.Exec("UPDATE people SET role = ? WHERE name = ?", role, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrPersonNotFound
	}
	return nil
}

// List returns everyone, most recently seen first.
func (s *PersonStore) List() ([]*core.Person, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, name, role, language_preference, first_met, last_seen, interaction_count, notes
		FROM people
		ORDER BY last_seen DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*core.Person
	for rows.Next() {
		p := &core.Person{}
		var lang, role string
		if err := rows.Scan(&p.ID, &p.Name, &role, &lang, &p.FirstMet, &p.LastSeen, &p.InteractionCount, &p.Notes); err != nil {
			return nil, err
		}
		p.Role = core.Role(role)
		p.Language = core.Language(lang)
		people = append(people, p)
	}

	return people, rows.Err()
}

// Delete removes a person by name.
func (s *PersonStore) Delete(name string) error {
	res, err := s.db.conn.Exec("DELETE FROM people WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrPersonNotFound
	}
	return nil
}

// Count returns the number of known people.
func (s *PersonStore) Count() (int, error) {
	var n int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM people").Scan(&n)
	return n, err
}
