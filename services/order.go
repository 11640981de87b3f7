package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/db"
	"storefront/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrEmptyOrder is returned when asked to record a summary with no lines.
var ErrEmptyOrder = errors.New("order has no lines")

// NewOrderID returns a fresh order reference.
func NewOrderID() string {
	return uuid.NewString()
}

// RecordOrder stores a confirmed summary and its lines under orderID.
func RecordOrder(ctx context.Context, orderID string, chatID int64, s models.OrderSummary) error {
	if db.Pool == nil {
		return db.ErrNoDB
	}
	if s.IsEmpty || len(s.Lines) == 0 {
		return ErrEmptyOrder
	}
	id, err := uuid.Parse(orderID)
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO orders (id, chat_id, total, created_at)
			VALUES ($1, $2, $3, now())`,
			id, chatID, s.Total,
		); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for pos, l := range s.Lines {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_lines (order_id, position, description, unit_price, quantity, subtotal)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				id, pos, l.Description, l.UnitPrice, l.Quantity, l.Subtotal,
			); err != nil {
				return fmt.Errorf("insert order line %d: %w", pos, err)
			}
		}
		return nil
	})
}

// GetOrder loads an order and its lines. Returns nil, nil when not found.
func GetOrder(ctx context.Context, id string) (*models.PlacedOrder, error) {
	if db.Pool == nil {
		return nil, db.ErrNoDB
	}
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	o := &models.PlacedOrder{ID: oid.String()}
	err = db.Pool.QueryRow(ctx, `
		SELECT chat_id, total, created_at FROM orders WHERE id = $1`,
		oid,
	).Scan(&o.ChatID, &o.Total, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT description, unit_price, quantity, subtotal FROM order_lines
		WHERE order_id = $1
		ORDER BY position`,
		oid,
	)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l models.OrderSummaryLine
		if err := rows.Scan(&l.Description, &l.UnitPrice, &l.Quantity, &l.Subtotal); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

// ListOrdersByChat returns the most recent orders placed from chatID, newest first (lines not loaded).
func ListOrdersByChat(ctx context.Context, chatID int64, limit int) ([]models.PlacedOrder, error) {
	if db.Pool == nil {
		return nil, db.ErrNoDB
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, total, created_at FROM orders
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []models.PlacedOrder
	for rows.Next() {
		o := models.PlacedOrder{ChatID: chatID}
		if err := rows.Scan(&o.ID, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
