package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

func TestSentimentSignal(t *testing.T) {
	e := testEvaluator()

	record := func(id int, score, confidence float64, age time.Duration) models.SentimentAnalysis {
		return models.SentimentAnalysis{
			ID:         id,
			Symbol:     "BTC",
			Score:      score,
			Confidence: confidence,
			AnalyzedAt: evalNow.Add(-age),
		}
	}

	t.Run("no records yields no sub-signal", func(t *testing.T) {
		sub, ids, err := e.sentimentSignal("BTC", nil)
		require.NoError(t, err)
		assert.Nil(t, sub)
		assert.Nil(t, ids)
	})

	t.Run("positive average above threshold is a buy", func(t *testing.T) {
		records := []models.SentimentAnalysis{
			record(1, 0.4, 0.8, time.Hour),
			record(2, 0.2, 0.8, 2*time.Hour),
		}
		sub, ids, err := e.sentimentSignal("BTC", records)
		require.NoError(t, err)
		require.NotNil(t, sub)

		assert.Equal(t, models.ActionBuy, sub.action)
		assert.InDelta(t, 0.3, sub.score, 1e-9)
		assert.Equal(t, models.StrengthModerate, sub.strength)
		assert.Equal(t, []int{1, 2}, ids)
	})

	t.Run("confidence weights the average", func(t *testing.T) {
		// High-confidence negative outweighs low-confidence positive.
		records := []models.SentimentAnalysis{
			record(1, 0.9, 0.1, time.Hour),
			record(2, -0.6, 0.9, time.Hour),
		}
		sub, _, err := e.sentimentSignal("BTC", records)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionSell, sub.action)
	})

	t.Run("strength escalates with magnitude", func(t *testing.T) {
		sub, _, err := e.sentimentSignal("BTC", []models.SentimentAnalysis{record(1, 0.55, 1, time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, models.StrengthStrong, sub.strength)

		sub, _, err = e.sentimentSignal("BTC", []models.SentimentAnalysis{record(1, -0.75, 1, time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, models.StrengthVeryStrong, sub.strength)
		assert.Equal(t, models.ActionSell, sub.action)
	})

	t.Run("weak average holds", func(t *testing.T) {
		sub, _, err := e.sentimentSignal("BTC", []models.SentimentAnalysis{record(1, 0.1, 1, time.Hour)})
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionHold, sub.action)
	})

	t.Run("stale and foreign records are excluded", func(t *testing.T) {
		records := []models.SentimentAnalysis{
			record(1, -0.9, 1, 30*time.Hour),
			{ID: 2, Symbol: "ETH", Score: -0.9, Confidence: 1, AnalyzedAt: evalNow.Add(-time.Hour)},
		}
		sub, ids, err := e.sentimentSignal("BTC", records)
		require.NoError(t, err)
		assert.Nil(t, sub)
		assert.Nil(t, ids)
	})

	t.Run("out of range score is an error", func(t *testing.T) {
		_, _, err := e.sentimentSignal("BTC", []models.SentimentAnalysis{record(1, 1.5, 1, time.Hour)})
		assert.Error(t, err)
	})

	t.Run("zero confidence still counts with a floor", func(t *testing.T) {
		sub, _, err := e.sentimentSignal("BTC", []models.SentimentAnalysis{record(1, 0.8, 0, time.Hour)})
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionBuy, sub.action)
	})
}

func TestNewsSignal(t *testing.T) {
	e := testEvaluator()

	article := func(id int, age time.Duration) models.NewsArticle {
		return models.NewsArticle{ID: id, Symbol: "BTC", PublishedAt: evalNow.Add(-age)}
	}

	t.Run("below the volume threshold yields no sub-signal", func(t *testing.T) {
		articles := []models.NewsArticle{article(1, time.Hour), article(2, 2*time.Hour)}

		sub, ids := e.newsSignal("BTC", articles)
		assert.Nil(t, sub)
		assert.Len(t, ids, 2)
	})

	t.Run("elevated volume flags volatility as a hold", func(t *testing.T) {
		var articles []models.NewsArticle
		for i := 0; i < 5; i++ {
			articles = append(articles, article(i+1, time.Duration(i)*time.Hour))
		}

		sub, ids := e.newsSignal("BTC", articles)
		require.NotNil(t, sub)
		assert.Equal(t, models.ActionHold, sub.action)
		assert.Equal(t, models.StrengthModerate, sub.strength)
		assert.Len(t, ids, 5)
		assert.Contains(t, sub.notes[0], "elevated news volume")
	})

	t.Run("stale articles do not count", func(t *testing.T) {
		var articles []models.NewsArticle
		for i := 0; i < 5; i++ {
			articles = append(articles, article(i+1, 30*time.Hour))
		}

		sub, ids := e.newsSignal("BTC", articles)
		assert.Nil(t, sub)
		assert.Empty(t, ids)
	})
}
