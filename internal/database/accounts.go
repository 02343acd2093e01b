package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// CreateTradingAccount inserts a linked trading account.
func (db *DB) CreateTradingAccount(a *models.TradingAccount) error {
	query := `
		INSERT INTO trading_accounts (user_id, provider, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query, a.UserID, a.Provider, a.Balance, a.Currency, now).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create trading account: %w", err)
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// GetTradingAccount retrieves an account by ID, or nil when it does
// not exist.
func (db *DB) GetTradingAccount(id int) (*models.TradingAccount, error) {
	query := `
		SELECT id, user_id, provider, balance, currency, created_at, updated_at
		FROM trading_accounts
		WHERE id = $1
	`
	var a models.TradingAccount
	err := db.conn.QueryRow(query, id).Scan(
		&a.ID, &a.UserID, &a.Provider, &a.Balance, &a.Currency, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trading account: %w", err)
	}
	return &a, nil
}

// UpdateAccountBalance sets a new balance on an account.
func (db *DB) UpdateAccountBalance(id int, balance decimal.Decimal) error {
	result, err := db.conn.Exec(
		`UPDATE trading_accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, balance, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trading account not found: %d", id)
	}
	return nil
}

// CreateTrade records a (simulated) trade created by signal execution.
func (db *DB) CreateTrade(t *models.Trade) error {
	query := `
		INSERT INTO trades (signal_id, account_id, symbol, side, quantity, price, amount, status, executed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	now := time.Now()
	if t.ExecutedAt.IsZero() {
		t.ExecutedAt = now
	}
	err := db.conn.QueryRow(query,
		t.SignalID, t.AccountID, t.Symbol, t.Side, t.Quantity, t.Price, t.Amount, t.Status, t.ExecutedAt, now,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	t.CreatedAt = now
	return nil
}

// GetTradesBySignal retrieves the trades created for a signal.
func (db *DB) GetTradesBySignal(signalID int) ([]*models.Trade, error) {
	query := `
		SELECT id, signal_id, account_id, symbol, side, quantity, price, amount, status, executed_at, created_at
		FROM trades
		WHERE signal_id = $1
		ORDER BY executed_at
	`
	rows, err := db.conn.Query(query, signalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		var t models.Trade
		err := rows.Scan(
			&t.ID, &t.SignalID, &t.AccountID, &t.Symbol, &t.Side,
			&t.Quantity, &t.Price, &t.Amount, &t.Status, &t.ExecutedAt, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, &t)
	}
	return trades, nil
}
