// Package storage provides persistence for sohayok.
package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sohayok/sohayok/internal/core"
)

// ExchangeStore handles the append-only conversation log. Rows are never
// updated after insert; insertion order is preserved per caller.
type ExchangeStore struct {
	db *DB
}

// NewExchangeStore creates a new exchange store
func NewExchangeStore(db *DB) *ExchangeStore {
	return &ExchangeStore{db: db}
}

// Append inserts one exchange. Missing IDs and timestamps are filled in.
func (s *ExchangeStore) Append(e *core.Exchange) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	var caller, respText, respLang any
	if e.Caller != "" {
		caller = e.Caller
	}
	if e.ResponseText != "" {
		respText = e.ResponseText
		respLang = string(e.ResponseLanguage)
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO exchanges (id, timestamp, caller, input_text, input_language,
		                       intent_kind, confidence, response_text, response_language, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Timestamp, caller, e.InputText, e.InputLanguage,
		e.IntentKind, e.Confidence, respText, respLang, e.Outcome)

	return err
}

// Recent returns the latest exchanges, newest first.
func (s *ExchangeStore) Recent(limit int) ([]*core.Exchange, error) {
	return s.query(`
		SELECT id, timestamp, caller, input_text, input_language,
		       intent_kind, confidence, response_text, response_language, outcome
		FROM exchanges
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`, limit)
}

// RecentByCaller returns the latest exchanges for one caller, newest first.
func (s *ExchangeStore) RecentByCaller(caller string, limit int) ([]*core.Exchange, error) {
	return s.query(`
		SELECT id, timestamp, caller, input_text, input_language,
		       intent_kind, confidence, response_text, response_language, outcome
		FROM exchanges
		WHERE caller = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`, caller, limit)
}

// Count returns the total number of exchanges.
func (s *ExchangeStore) Count() (int, error) {
	var n int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM exchanges").Scan(&n)
	return n, err
}

// CountByOutcome returns exchange counts grouped by dispatch outcome.
func (s *ExchangeStore) CountByOutcome() (map[core.Outcome]int, error) {
	rows, err := s.db.conn.Query("SELECT outcome, COUNT(*) FROM exchanges GROUP BY outcome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[core.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[core.Outcome(outcome)] = n
	}

	return counts, rows.Err()
}

func (s *ExchangeStore) query(q string, args ...any) ([]*core.Exchange, error) {
	rows, err := s.db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exchanges []*core.Exchange
	for rows.Next() {
		e := &core.Exchange{}
		var caller, respText, respLang sql.NullString
		var kind, inputLang, outcome string
		if err := rows.Scan(&e.ID, &e.Timestamp, &caller, &e.InputText, &inputLang,
			&kind, &e.Confidence, &respText, &respLang, &outcome); err != nil {
			return nil, err
		}
		e.Caller = caller.String
		e.InputLanguage = core.Language(inputLang)
		e.IntentKind = core.IntentKind(kind)
		e.ResponseText = respText.String
		e.ResponseLanguage = core.Language(respLang.String)
		e.Outcome = core.Outcome(outcome)
		exchanges = append(exchanges, e)
	}

	return exchanges, rows.Err()
}
