package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Publicador-api/internal/application/listing"
	"github.com/jhoicas/Publicador-api/internal/domain/repository"
)

// Ensure TxRunner implements listing.ListingTxRunner.
var _ listing.ListingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunListing inicia una transacción, ejecuta fn con el repositorio del log
// de publicaciones atado a la tx y hace Commit o Rollback. Así el log de
// una corrida se persiste entero o no se persiste.
func (r *TxRunner) RunListing(ctx context.Context, fn func(logRepo repository.ListingLogRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	logRepo := NewListingLogRepository(tx)

	if err := fn(logRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
