package repository

import (
	"context"
	"database/sql"
	"fmt"

	"freshmind/internal/domain"
)

// PurchaseRepository defines the interface for purchase-history data access.
// History is append-only; this service only reads it.
type PurchaseRepository interface {
	List(ctx context.Context) ([]domain.PurchaseEvent, error)
	ListByUser(ctx context.Context, userID int) ([]domain.PurchaseEvent, error)
}

type purchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new instance of PurchaseRepository
func NewPurchaseRepository(db *sql.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// List retrieves every purchase event in ledger order (ascending purchase ID).
func (r *purchaseRepository) List(ctx context.Context) ([]domain.PurchaseEvent, error) {
	query := `
		SELECT purchase_id, user_id, product_id, quantity, purchased_at
		FROM purchase_history
		ORDER BY purchase_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByUser retrieves one user's purchase events in ledger order.
func (r *purchaseRepository) ListByUser(ctx context.Context, userID int) ([]domain.PurchaseEvent, error) {
	query := `
		SELECT purchase_id, user_id, product_id, quantity, purchased_at
		FROM purchase_history
		WHERE user_id = $1
		ORDER BY purchase_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase history for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]domain.PurchaseEvent, error) {
	events := []domain.PurchaseEvent{}
	for rows.Next() {
		var e domain.PurchaseEvent
		err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.Quantity, &e.PurchasedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase history: %w", err)
	}

	return events, nil
}
