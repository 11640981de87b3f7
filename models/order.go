package models

import "time"

// OrderSummaryLine is one priced row of an order.
type OrderSummaryLine struct {
	Description string `json:"description"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// OrderSummary is computed on demand from the aggregator state.
type OrderSummary struct {
	Lines   []OrderSummaryLine `json:"lines"`
	Total   int64              `json:"total"`
	IsEmpty bool               `json:"is_empty"`
}

// PlacedOrder is a summary that was confirmed by a user (row from orders table).
type PlacedOrder struct {
	ID        string
	ChatID    int64
	Lines     []OrderSummaryLine
	Total     int64
	CreatedAt time.Time
}

// OrderPlacedEvent is published after an order is confirmed.
type OrderPlacedEvent struct {
	OrderID  string             `json:"order_id"`
	ChatID   int64              `json:"chat_id"`
	Lines    []OrderSummaryLine `json:"lines"`
	Total    int64              `json:"total"`
	PlacedAt time.Time          `json:"placed_at"`
}
