package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sigemech/admission-api/internal/repository"
)

const pqUniqueViolation = "23505"

// txManager implements repository.TxManager over sqlx.
type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) repository.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &unitOfWork{tx: tx}, nil
}

type unitOfWork struct {
	tx *sqlx.Tx
}

func (u *unitOfWork) Commit() error {
	return u.tx.Commit()
}

func (u *unitOfWork) Rollback() error {
	return u.tx.Rollback()
}

// ext resolves the statement executor: the transaction when a unit of work
// is supplied, the plain connection otherwise.
func ext(db *sqlx.DB, uow repository.UnitOfWork) sqlx.ExtContext {
	if uow == nil {
		return db
	}
	u, ok := uow.(*unitOfWork)
	if !ok {
		// Only unit tests pass foreign implementations; they never reach
		// a postgres repository.
		panic(fmt.Sprintf("unexpected UnitOfWork implementation %T", uow))
	}
	return u.tx
}

// translateErr maps driver errors onto the repository sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrUniqueViolation, pqErr.Constraint)
	}
	return err
}
