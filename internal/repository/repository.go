package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

type Repository struct {
	db      *pgxpool.Pool
	User    UserRepository
	Role    RoleRepository
	Gallery GalleryRepository
	Blog    BlogRepository
	Lead    LeadRepository
	Upload  UploadRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:      db,
		User:    NewUserRepository(db),
		Role:    NewRoleRepository(db),
		Gallery: NewGalleryRepo(db),
		Blog:    NewBlogRepository(db),
		Lead:    NewLeadRepository(db),
		Upload:  NewUploadRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// withTx runs fn in a transaction, committing on success.
func withTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
