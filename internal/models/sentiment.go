package models

import "time"

// SentimentAnalysis is one scored sentiment observation for a symbol.
// Score is in [-1, 1], Confidence in [0, 1]. Produced by an external
// collaborator; the evaluator only reads recent records.
type SentimentAnalysis struct {
	ID         int       `json:"id"`
	Symbol     string    `json:"symbol"`
	Source     string    `json:"source"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewsArticle is a news item referencing a symbol. Currently only the
// article count feeds evaluation (volatility flag); per-article
// sentiment scoring is a future input.
type NewsArticle struct {
	ID          int       `json:"id"`
	Symbol      string    `json:"symbol"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}
