package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// strategyConfig is the JSONB blob holding the parts of a strategy the
// engine reads but the schema does not need to index.
type strategyConfig struct {
	Indicators    models.IndicatorSettings `json:"indicators"`
	EntryRules    *models.RuleGroup        `json:"entry_rules,omitempty"`
	ExitRules     *models.RuleGroup        `json:"exit_rules,omitempty"`
	StopLossPct   *float64                 `json:"stop_loss_pct,omitempty"`
	TakeProfitPct *float64                 `json:"take_profit_pct,omitempty"`
	RiskPerTrade  *float64                 `json:"risk_per_trade,omitempty"`
	CrossoverMode string                   `json:"crossover_mode,omitempty"`
}

// CreateStrategy inserts a new strategy.
func (db *DB) CreateStrategy(s *models.Strategy) error {
	config, err := marshalStrategyConfig(s)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO strategies (user_id, name, symbol, interval, active, account_id, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`
	now := time.Now()
	err = db.conn.QueryRow(query,
		s.UserID, s.Name, s.Symbol, s.Interval, s.Active, s.AccountID, config, now,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create strategy: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// UpdateStrategy updates an existing strategy.
func (db *DB) UpdateStrategy(s *models.Strategy) error {
	config, err := marshalStrategyConfig(s)
	if err != nil {
		return err
	}
	query := `
		UPDATE strategies SET
			name = $2, symbol = $3, interval = $4, active = $5,
			account_id = $6, config = $7, updated_at = $8
		WHERE id = $1
	`
	s.UpdatedAt = time.Now()
	result, err := db.conn.Exec(query,
		s.ID, s.Name, s.Symbol, s.Interval, s.Active, s.AccountID, config, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update strategy: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("strategy not found: %d", s.ID)
	}
	return nil
}

const strategyColumns = `id, user_id, name, symbol, interval, active, account_id, config, created_at, updated_at`

// GetStrategyByID retrieves a strategy by ID.
func (db *DB) GetStrategyByID(id int) (*models.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE id = $1`
	s, err := scanStrategy(db.conn.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("strategy not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}
	return s, nil
}

// GetStrategies retrieves all strategies for a user.
func (db *DB) GetStrategies(userID int) ([]*models.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE user_id = $1 ORDER BY created_at`
	return db.queryStrategies(query, userID)
}

// GetActiveStrategies retrieves a user's active strategies only.
func (db *DB) GetActiveStrategies(userID int) ([]*models.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE user_id = $1 AND active = true ORDER BY created_at`
	return db.queryStrategies(query, userID)
}

func (db *DB) queryStrategies(query string, args ...interface{}) ([]*models.Strategy, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	var strategies []*models.Strategy
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

// DeleteStrategy removes a strategy by ID.
func (db *DB) DeleteStrategy(id int) error {
	result, err := db.conn.Exec(`DELETE FROM strategies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("strategy not found: %d", id)
	}
	return nil
}

func marshalStrategyConfig(s *models.Strategy) ([]byte, error) {
	config, err := json.Marshal(strategyConfig{
		Indicators:    s.Indicators,
		EntryRules:    s.EntryRules,
		ExitRules:     s.ExitRules,
		StopLossPct:   s.StopLossPct,
		TakeProfitPct: s.TakeProfitPct,
		RiskPerTrade:  s.RiskPerTrade,
		CrossoverMode: s.CrossoverMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal strategy config: %w", err)
	}
	return config, nil
}

func scanStrategy(row rowScanner) (*models.Strategy, error) {
	var s models.Strategy
	var accountID sql.NullInt64
	var config []byte

	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Symbol, &s.Interval, &s.Active,
		&accountID, &config, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if accountID.Valid {
		id := int(accountID.Int64)
		s.AccountID = &id
	}
	if len(config) > 0 {
		var c strategyConfig
		if err := json.Unmarshal(config, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strategy config: %w", err)
		}
		s.Indicators = c.Indicators
		s.EntryRules = c.EntryRules
		s.ExitRules = c.ExitRules
		s.StopLossPct = c.StopLossPct
		s.TakeProfitPct = c.TakeProfitPct
		s.RiskPerTrade = c.RiskPerTrade
		s.CrossoverMode = c.CrossoverMode
	}
	return &s, nil
}

// --- Automation preferences ---

// UpsertAutomationPreference creates or replaces the automation
// preference for a strategy.
func (db *DB) UpsertAutomationPreference(p *models.AutomationPreference) error {
	query := `
		INSERT INTO automation_preferences (
			user_id, strategy_id, level, min_signal_strength, max_trade_amount, channels, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id, strategy_id) DO UPDATE SET
			level = EXCLUDED.level,
			min_signal_strength = EXCLUDED.min_signal_strength,
			max_trade_amount = EXCLUDED.max_trade_amount,
			channels = EXCLUDED.channels,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	var minStrength interface{}
	if p.MinSignalStrength != nil {
		minStrength = string(*p.MinSignalStrength)
	}
	var maxAmount interface{}
	if p.MaxTradeAmount != nil {
		maxAmount = p.MaxTradeAmount.String()
	}

	now := time.Now()
	err := db.conn.QueryRow(query,
		p.UserID, p.StrategyID, p.Level, minStrength, maxAmount, pq.Array(p.Channels), now,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert automation preference: %w", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetAutomationPreference retrieves the automation preference for a
// strategy, or nil when none is configured.
func (db *DB) GetAutomationPreference(userID, strategyID int) (*models.AutomationPreference, error) {
	query := `
		SELECT id, user_id, strategy_id, level, min_signal_strength, max_trade_amount, channels, created_at, updated_at
		FROM automation_preferences
		WHERE user_id = $1 AND strategy_id = $2
	`
	var p models.AutomationPreference
	var minStrength sql.NullString
	var maxAmount sql.NullString
	var channels pq.StringArray

	err := db.conn.QueryRow(query, userID, strategyID).Scan(
		&p.ID, &p.UserID, &p.StrategyID, &p.Level, &minStrength, &maxAmount, &channels, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get automation preference: %w", err)
	}

	if minStrength.Valid {
		strength := models.SignalStrength(minStrength.String)
		p.MinSignalStrength = &strength
	}
	if maxAmount.Valid {
		amount, err := decimal.NewFromString(maxAmount.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse max trade amount: %w", err)
		}
		p.MaxTradeAmount = &amount
	}
	p.Channels = channels
	return &p, nil
}
