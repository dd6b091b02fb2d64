package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nestegg/nestegg/internal/domain"
)

// Repository is persistent storage for the transaction log. SaveAll must
// ignore rows whose content hash is already stored and report how many
// rows were actually new.
type Repository interface {
	SaveAll(ctx context.Context, batchID uuid.UUID, txs []domain.Transaction) (int, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	Count(ctx context.Context) (int, error)
}

// PgRepository implements Repository with PostgreSQL. Dedupe rides on the
// content-hash primary key.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL transaction repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) SaveAll(ctx context.Context, batchID uuid.UUID, txs []domain.Transaction) (int, error) {
	inserted := 0
	for _, t := range txs {
		tag, err := r.pool.Exec(ctx,
			`INSERT INTO transactions
			   (hash, tx_date, activity, fund, money_source, units, unit_price, amount, batch_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (hash) DO NOTHING`,
			t.Hash(), t.Date, t.Activity, t.Fund, t.MoneySource,
			t.Units, t.UnitPrice, t.Amount, batchID)
		if err != nil {
			return inserted, fmt.Errorf("saving transaction %s: %w", t.Hash(), err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tx_date, activity, fund, money_source, units, unit_price, amount
		 FROM transactions
		 ORDER BY tx_date ASC, hash ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var date time.Time
		if err := rows.Scan(&date, &t.Activity, &t.Fund, &t.MoneySource,
			&t.Units, &t.UnitPrice, &t.Amount); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Date = date.Format("2006-01-02")
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return txs, nil
}

func (r *PgRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return n, nil
}
