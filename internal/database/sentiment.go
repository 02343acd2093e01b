package database

import (
	"fmt"
	"time"

	"github.com/scarramanga/stackmotive-signal-engine/internal/models"
)

// CreateSentimentAnalysis inserts one sentiment observation.
func (db *DB) CreateSentimentAnalysis(s *models.SentimentAnalysis) error {
	query := `
		INSERT INTO sentiment_analyses (symbol, source, score, confidence, analyzed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	now := time.Now()
	if s.AnalyzedAt.IsZero() {
		s.AnalyzedAt = now
	}
	err := db.conn.QueryRow(query, s.Symbol, s.Source, s.Score, s.Confidence, s.AnalyzedAt, now).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create sentiment analysis: %w", err)
	}
	s.CreatedAt = now
	return nil
}

// GetRecentSentiment retrieves sentiment records for a symbol analyzed
// at or after the given time, newest first.
func (db *DB) GetRecentSentiment(symbol string, since time.Time) ([]models.SentimentAnalysis, error) {
	query := `
		SELECT id, symbol, source, score, confidence, analyzed_at, created_at
		FROM sentiment_analyses
		WHERE symbol = $1 AND analyzed_at >= $2
		ORDER BY analyzed_at DESC
	`
	rows, err := db.conn.Query(query, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment: %w", err)
	}
	defer rows.Close()

	var records []models.SentimentAnalysis
	for rows.Next() {
		var s models.SentimentAnalysis
		err := rows.Scan(&s.ID, &s.Symbol, &s.Source, &s.Score, &s.Confidence, &s.AnalyzedAt, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sentiment: %w", err)
		}
		records = append(records, s)
	}
	return records, nil
}

// CreateNewsArticle inserts one news article reference.
func (db *DB) CreateNewsArticle(a *models.NewsArticle) error {
	query := `
		INSERT INTO news_articles (symbol, title, url, source, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	now := time.Now()
	if a.PublishedAt.IsZero() {
		a.PublishedAt = now
	}
	err := db.conn.QueryRow(query, a.Symbol, a.Title, a.URL, a.Source, a.PublishedAt, now).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create news article: %w", err)
	}
	a.CreatedAt = now
	return nil
}

// GetRecentNews retrieves news articles for a symbol published at or
// after the given time, newest first.
func (db *DB) GetRecentNews(symbol string, since time.Time) ([]models.NewsArticle, error) {
	query := `
		SELECT id, symbol, title, url, source, published_at, created_at
		FROM news_articles
		WHERE symbol = $1 AND published_at >= $2
		ORDER BY published_at DESC
	`
	rows, err := db.conn.Query(query, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query news articles: %w", err)
	}
	defer rows.Close()

	var articles []models.NewsArticle
	for rows.Next() {
		var a models.NewsArticle
		err := rows.Scan(&a.ID, &a.Symbol, &a.Title, &a.URL, &a.Source, &a.PublishedAt, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan news article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, nil
}
