package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

func TestSentiment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateSentimentAnalysis round-trips", func(t *testing.T) {
		testDB.TruncateAll(t)

		analyzedAt := time.Now().Add(-2 * time.Hour).UTC().Truncate(time.Millisecond)
		record := &models.SentimentAnalysis{
			Symbol:     "BTC",
			Source:     "twitter",
			Score:      0.45,
			Confidence: 0.9,
			AnalyzedAt: analyzedAt,
		}
		require.NoError(t, testDB.CreateSentimentAnalysis(record))
		assert.NotZero(t, record.ID)

		records, err := testDB.GetRecentSentiment("BTC", analyzedAt.Add(-time.Minute))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "twitter", records[0].Source)
		assert.InDelta(t, 0.45, records[0].Score, 1e-9)
		assert.InDelta(t, 0.9, records[0].Confidence, 1e-9)
		assert.WithinDuration(t, analyzedAt, records[0].AnalyzedAt, time.Second)
	})

	t.Run("GetRecentSentiment filters by symbol and time, newest first", func(t *testing.T) {
		testDB.TruncateAll(t)

		now := time.Now()
		fixtures := []models.SentimentAnalysis{
			{Symbol: "BTC", Source: "twitter", Score: 0.2, Confidence: 0.8, AnalyzedAt: now.Add(-1 * time.Hour)},
			{Symbol: "BTC", Source: "reddit", Score: -0.1, Confidence: 0.6, AnalyzedAt: now.Add(-6 * time.Hour)},
			{Symbol: "BTC", Source: "news", Score: 0.7, Confidence: 0.9, AnalyzedAt: now.Add(-48 * time.Hour)},
			{Symbol: "ETH", Source: "twitter", Score: 0.5, Confidence: 0.7, AnalyzedAt: now.Add(-1 * time.Hour)},
		}
		for i := range fixtures {
			require.NoError(t, testDB.CreateSentimentAnalysis(&fixtures[i]))
		}

		records, err := testDB.GetRecentSentiment("BTC", now.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "twitter", records[0].Source)
		assert.Equal(t, "reddit", records[1].Source)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		testDB.TruncateAll(t)

		records, err := testDB.GetRecentSentiment("BTC", time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestNewsArticles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateNewsArticle round-trips", func(t *testing.T) {
		testDB.TruncateAll(t)

		publishedAt := time.Now().Add(-3 * time.Hour).UTC().Truncate(time.Millisecond)
		article := &models.NewsArticle{
			Symbol:      "BTC",
			Title:       "Exchange outage rattles traders",
			URL:         "https://example.com/articles/outage",
			Source:      "example.com",
			PublishedAt: publishedAt,
		}
		require.NoError(t, testDB.CreateNewsArticle(article))
		assert.NotZero(t, article.ID)

		articles, err := testDB.GetRecentNews("BTC", publishedAt.Add(-time.Minute))
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, article.Title, articles[0].Title)
		assert.Equal(t, article.URL, articles[0].URL)
		assert.WithinDuration(t, publishedAt, articles[0].PublishedAt, time.Second)
	})

	t.Run("GetRecentNews filters by symbol and time, newest first", func(t *testing.T) {
		testDB.TruncateAll(t)

		now := time.Now()
		fixtures := []models.NewsArticle{
			{Symbol: "BTC", Title: "fresh", URL: "https://example.com/1", Source: "a", PublishedAt: now.Add(-1 * time.Hour)},
			{Symbol: "BTC", Title: "older", URL: "https://example.com/2", Source: "b", PublishedAt: now.Add(-10 * time.Hour)},
			{Symbol: "BTC", Title: "stale", URL: "https://example.com/3", Source: "c", PublishedAt: now.Add(-72 * time.Hour)},
			{Symbol: "ETH", Title: "other symbol", URL: "https://example.com/4", Source: "d", PublishedAt: now.Add(-1 * time.Hour)},
		}
		for i := range fixtures {
			require.NoError(t, testDB.CreateNewsArticle(&fixtures[i]))
		}

		articles, err := testDB.GetRecentNews("BTC", now.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, articles, 2)
		assert.Equal(t, "fresh", articles[0].Title)
		assert.Equal(t, "older", articles[1].Title)
	})
}
