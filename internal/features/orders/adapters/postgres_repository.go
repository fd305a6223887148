package adapter

import (
	"context"
	"fmt"

	"ozon-orders/internal/features/orders/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// execer is the subset of *pgxpool.Pool used by the repository.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const insertNewOrderSQL = `
	INSERT INTO ozon_new_orders (
		posting_number, profile_id, order_id, order_number, status, in_process_at, payload
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (posting_number) DO NOTHING
`

const listUnpublishedSQL = `
	SELECT payload, profile_id::text
	FROM ozon_new_orders
	WHERE published_at IS NULL
	ORDER BY created_at, posting_number
	LIMIT $1
`

const markPublishedSQL = `UPDATE ozon_new_orders SET published_at = now() WHERE posting_number = $1`

// PostgresOrderRepository implements ports.OrderRepository on the ozon_new_orders table.
type PostgresOrderRepository struct {
	db execer
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository. db is usually a *pgxpool.Pool.
func NewPostgresOrderRepository(db execer) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Save inserts the order unless its posting number is already stored.
func (r *PostgresOrderRepository) Save(ctx context.Context, order domain.NewOrder) (bool, error) {
	p := order.Posting
	if err := p.Validate(); err != nil {
		return false, err
	}

	var inProcessAt any
	if !p.InProcessAt.IsZero() {
		inProcessAt = p.InProcessAt
	}

	var orderID any
	if p.OrderID != 0 {
		orderID = p.OrderID
	}

	tag, err := r.db.Exec(ctx, insertNewOrderSQL,
		p.PostingNumber, string(order.Profile), orderID, p.OrderNumber, p.Status, inProcessAt, []byte(p.Raw),
	)
	if err != nil {
		return false, fmt.Errorf("insert posting %s: %w", p.PostingNumber, err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListUnpublished returns up to limit orders whose event has not been published yet.
func (r *PostgresOrderRepository) ListUnpublished(ctx context.Context, limit int) ([]domain.NewOrder, error) {
	rows, err := r.db.Query(ctx, listUnpublishedSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list unpublished orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.NewOrder
	for rows.Next() {
		var (
			payload []byte
			profile string
		)
		if err := rows.Scan(&payload, &profile); err != nil {
			return nil, fmt.Errorf("scan unpublished order: %w", err)
		}

		posting, err := domain.ParsePosting(payload)
		if err != nil {
			return nil, fmt.Errorf("decode unpublished order: %w", err)
		}

		orders = append(orders, domain.NewOrder{Posting: posting, Profile: domain.ProfileID(profile)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unpublished orders: %w", err)
	}

	return orders, nil
}

// MarkPublished stamps the order's published_at.
func (r *PostgresOrderRepository) MarkPublished(ctx context.Context, postingNumber string) error {
	if _, err := r.db.Exec(ctx, markPublishedSQL, postingNumber); err != nil {
		return fmt.Errorf("mark posting %s published: %w", postingNumber, err)
	}
	return nil
}
