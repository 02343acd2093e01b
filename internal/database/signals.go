package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// CreateTradingSignal inserts a new trading signal with status pending
// (unless the caller set another initial status).
func (db *DB) CreateTradingSignal(s *models.TradingSignal) error {
	if s.Status == "" {
		s.Status = models.SignalStatusPending
	}
	indicators, err := json.Marshal(s.Indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal indicators: %w", err)
	}

	query := `
		INSERT INTO trading_signals (
			user_id, strategy_id, symbol, action, strength, score, status,
			indicators, sentiment_ids, news_ids, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id
	`
	now := time.Now()
	err = db.conn.QueryRow(query,
		s.UserID, s.StrategyID, s.Symbol, string(s.Action), string(s.Strength), s.Score, s.Status,
		indicators, pq.Array(intsToInt64(s.SentimentIDs)), pq.Array(intsToInt64(s.NewsIDs)), s.Notes, now,
	).Scan(&s.ID)

	if err != nil {
		return fmt.Errorf("failed to create trading signal: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// UpdateTradingSignalStatus moves a signal to a new lifecycle status,
// appending a note when one is given. The transition must respect the
// monotonic lifecycle: nothing ever returns to pending.
func (db *DB) UpdateTradingSignalStatus(id int, status, note string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow(`SELECT status FROM trading_signals WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("trading signal not found: %d", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load signal status: %w", err)
	}

	if !models.ValidStatusTransition(current, status) {
		return fmt.Errorf("invalid signal status transition %s -> %s for signal %d", current, status, id)
	}

	now := time.Now()
	if note != "" {
		_, err = tx.Exec(`
			UPDATE trading_signals SET
				status = $2,
				notes = CASE WHEN notes = '' THEN $3 ELSE notes || '; ' || $3 END,
				updated_at = $4,
				executed_at = CASE WHEN $2 = 'executed' THEN $4 ELSE executed_at END
			WHERE id = $1
		`, id, status, note, now)
	} else {
		_, err = tx.Exec(`
			UPDATE trading_signals SET
				status = $2,
				updated_at = $3,
				executed_at = CASE WHEN $2 = 'executed' THEN $3 ELSE executed_at END
			WHERE id = $1
		`, id, status, now)
	}
	if err != nil {
		return fmt.Errorf("failed to update signal status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

const signalColumns = `
	id, user_id, strategy_id, symbol, action, strength, score, status,
	indicators, sentiment_ids, news_ids, notes, created_at, updated_at, executed_at
`

// GetTradingSignalByID retrieves a signal by ID.
func (db *DB) GetTradingSignalByID(id int) (*models.TradingSignal, error) {
	query := `SELECT ` + signalColumns + ` FROM trading_signals WHERE id = $1`

	s, err := scanSignal(db.conn.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trading signal not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trading signal: %w", err)
	}
	return s, nil
}

// GetTradingSignalsByUser retrieves a user's signals, newest first.
func (db *DB) GetTradingSignalsByUser(userID, limit int) ([]*models.TradingSignal, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + signalColumns + `
		FROM trading_signals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.TradingSignal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trading signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, nil
}

// GetTradingSignalsByStrategy retrieves signals for one strategy,
// newest first.
func (db *DB) GetTradingSignalsByStrategy(strategyID, limit int) ([]*models.TradingSignal, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + signalColumns + `
		FROM trading_signals
		WHERE strategy_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := db.conn.Query(query, strategyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.TradingSignal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trading signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSignal(row rowScanner) (*models.TradingSignal, error) {
	var s models.TradingSignal
	var action, strength string
	var indicators []byte
	var sentimentIDs, newsIDs pq.Int64Array
	var notes sql.NullString
	var executedAt sql.NullTime

	err := row.Scan(
		&s.ID, &s.UserID, &s.StrategyID, &s.Symbol, &action, &strength, &s.Score, &s.Status,
		&indicators, &sentimentIDs, &newsIDs, &notes, &s.CreatedAt, &s.UpdatedAt, &executedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Action = models.SignalAction(action)
	s.Strength = models.SignalStrength(strength)
	if len(indicators) > 0 {
		if err := json.Unmarshal(indicators, &s.Indicators); err != nil {
			return nil, fmt.Errorf("failed to unmarshal indicators: %w", err)
		}
	}
	s.SentimentIDs = int64sToInts(sentimentIDs)
	s.NewsIDs = int64sToInts(newsIDs)
	if notes.Valid {
		s.Notes = notes.String
	}
	if executedAt.Valid {
		s.ExecutedAt = &executedAt.Time
	}
	return &s, nil
}

func intsToInt64(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func int64sToInts(in []int64) []int {
	if len(in) == 0 {
		return nil
	}
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
