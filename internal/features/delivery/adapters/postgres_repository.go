package adapters

import (
	"context"
	"errors"
	"fmt"

	"ozon-orders/internal/features/delivery/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// db is the subset of *pgxpool.Pool used by the repository.
type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	existsDeliverySQL = `SELECT EXISTS (SELECT 1 FROM delivery_type WHERE id = $1)`

	insertDeliverySQL = `
		INSERT INTO delivery_type (id, profile_type_id, sort, price, excess, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	insertDeliveryTransSQL = `
		INSERT INTO delivery_type_trans (delivery_id, locale, name, description)
		VALUES ($1, $2, $3, $4)
	`
)

// PostgresDeliveryRepository implements ports.DeliveryRepository on the delivery_type tables.
type PostgresDeliveryRepository struct {
	db db
}

// NewPostgresDeliveryRepository creates a new PostgresDeliveryRepository.
func NewPostgresDeliveryRepository(pool db) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{db: pool}
}

// Exists reports whether the delivery type is stored.
func (r *PostgresDeliveryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, existsDeliverySQL, id.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check delivery %s: %w", id, err)
	}
	return exists, nil
}

// Create inserts the delivery type and its translations in one transaction.
func (r *PostgresDeliveryRepository) Create(ctx context.Context, d domain.DeliveryType) (err error) {
	if err := d.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if _, err = tx.Exec(ctx, insertDeliverySQL,
		d.ID.String(), d.ProfileTypeID.String(), d.Sort, d.Price.String(), d.Excess.String(), d.Currency,
	); err != nil {
		return fmt.Errorf("insert delivery %s: %w", d.ID, err)
	}

	for _, t := range d.Translations {
		if _, err = tx.Exec(ctx, insertDeliveryTransSQL, d.ID.String(), t.Locale, t.Name, t.Description); err != nil {
			return fmt.Errorf("insert delivery %s translation %s: %w", d.ID, t.Locale, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delivery %s: %w", d.ID, err)
	}

	return nil
}
