package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

func TestTradingAccounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateTradingAccount round-trips", func(t *testing.T) {
		testDB.TruncateAll(t)

		account := &models.TradingAccount{
			UserID:   7,
			Provider: "paper",
			Balance:  decimal.NewFromInt(10000),
			Currency: "USD",
		}
		require.NoError(t, testDB.CreateTradingAccount(account))
		assert.NotZero(t, account.ID)

		retrieved, err := testDB.GetTradingAccount(account.ID)
		require.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.Equal(t, 7, retrieved.UserID)
		assert.Equal(t, "paper", retrieved.Provider)
		assert.True(t, decimal.NewFromInt(10000).Equal(retrieved.Balance))
		assert.Equal(t, "USD", retrieved.Currency)
	})

	t.Run("GetTradingAccount returns nil for missing accounts", func(t *testing.T) {
		testDB.TruncateAll(t)

		account, err := testDB.GetTradingAccount(12345)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("UpdateAccountBalance persists the new balance", func(t *testing.T) {
		testDB.TruncateAll(t)

		account := &models.TradingAccount{
			UserID:   7,
			Provider: "paper",
			Balance:  decimal.NewFromInt(10000),
			Currency: "USD",
		}
		require.NoError(t, testDB.CreateTradingAccount(account))

		newBalance := decimal.RequireFromString("9800.50")
		require.NoError(t, testDB.UpdateAccountBalance(account.ID, newBalance))

		retrieved, err := testDB.GetTradingAccount(account.ID)
		require.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.True(t, newBalance.Equal(retrieved.Balance))
	})

	t.Run("UpdateAccountBalance reports missing accounts", func(t *testing.T) {
		testDB.TruncateAll(t)

		err := testDB.UpdateAccountBalance(12345, decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestTrades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	seed := func(t *testing.T) (*models.TradingSignal, *models.TradingAccount) {
		t.Helper()

		strategy := &models.Strategy{
			UserID:   7,
			Name:     "trade source",
			Symbol:   "BTC",
			Interval: models.Interval1Day,
			Active:   true,
		}
		require.NoError(t, testDB.CreateStrategy(strategy))

		signal := &models.TradingSignal{
			UserID:     7,
			StrategyID: strategy.ID,
			Symbol:     "BTC",
			Action:     models.ActionBuy,
			Strength:   models.StrengthStrong,
			Score:      0.8,
			Status:     models.SignalStatusPending,
		}
		require.NoError(t, testDB.CreateTradingSignal(signal))

		account := &models.TradingAccount{
			UserID:   7,
			Provider: "paper",
			Balance:  decimal.NewFromInt(10000),
			Currency: "USD",
		}
		require.NoError(t, testDB.CreateTradingAccount(account))

		return signal, account
	}

	t.Run("CreateTrade assigns id and defaults executed_at", func(t *testing.T) {
		testDB.TruncateAll(t)
		signal, account := seed(t)

		trade := &models.Trade{
			SignalID:  signal.ID,
			AccountID: account.ID,
			Symbol:    "BTC",
			Side:      models.TradeSideBuy,
			Quantity:  decimal.RequireFromString("0.003125"),
			Price:     decimal.NewFromInt(64000),
			Amount:    decimal.NewFromInt(200),
			Status:    models.TradeStatusSimulated,
		}
		require.NoError(t, testDB.CreateTrade(trade))
		assert.NotZero(t, trade.ID)
		assert.False(t, trade.ExecutedAt.IsZero())
	})

	t.Run("GetTradesBySignal scopes to the signal", func(t *testing.T) {
		testDB.TruncateAll(t)
		signal, account := seed(t)
		other, _ := seed(t)

		for _, sig := range []*models.TradingSignal{signal, other} {
			trade := &models.Trade{
				SignalID:  sig.ID,
				AccountID: account.ID,
				Symbol:    "BTC",
				Side:      models.TradeSideBuy,
				Quantity:  decimal.NewFromInt(1),
				Price:     decimal.NewFromInt(100),
				Amount:    decimal.NewFromInt(100),
				Status:    models.TradeStatusSimulated,
			}
			require.NoError(t, testDB.CreateTrade(trade))
		}

		trades, err := testDB.GetTradesBySignal(signal.ID)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, signal.ID, trades[0].SignalID)
		assert.Equal(t, models.TradeSideBuy, trades[0].Side)
		assert.True(t, decimal.NewFromInt(100).Equal(trades[0].Amount))

		trades, err = testDB.GetTradesBySignal(99999)
		require.NoError(t, err)
		assert.Empty(t, trades)
	})
}
