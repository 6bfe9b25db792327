// Package postgres implements the persistence layer for short links and their
// hit events on top of PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/treebio/treebio/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type shortLinkDB struct {
	ID        int64     `db:"id"`
	ShortCode string    `db:"short_code"`
	URL       string    `db:"url"`
	Clicks    int64     `db:"clicks"`
	CreatedAt time.Time `db:"created_at"`
}

func (l *shortLinkDB) toEntity() *entity.ShortLink {
	return &entity.ShortLink{
		ID:        l.ID,
		ShortCode: l.ShortCode,
		URL:       l.URL,
		Clicks:    l.Clicks,
		CreatedAt: l.CreatedAt,
	}
}

type ShortLinkRepository struct {
	db *sqlx.DB
}

func NewShortLinkRepository(db *sqlx.DB) *ShortLinkRepository {
	return &ShortLinkRepository{db: db}
}

// Save inserts a new short link. The unique constraint on short_code is the
// final authority on collisions regardless of any earlier existence check.
func (r *ShortLinkRepository) Save(ctx context.Context, shortCode, url string) (*entity.ShortLink, error) {
	const op = "adapter.repository.postgres.ShortLinkRepository.Save"
	const query = `INSERT INTO short_links(short_code, url) VALUES ($1, $2) RETURNING *`

	var link shortLinkDB

	if err := r.db.GetContext(ctx, &link, query, shortCode, url); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortCodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into short_links table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *ShortLinkRepository) ExistsByCode(ctx context.Context, shortCode string) (bool, error) {
	const op = "adapter.repository.postgres.ShortLinkRepository.ExistsByCode"
	const query = `SELECT EXISTS (SELECT 1 FROM short_links WHERE short_code = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, shortCode); err != nil {
		return false, fmt.Errorf("%s: failed to check short_links table row existence: %w", op, err)
	}

	return exists, nil
}

func (r *ShortLinkRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.ShortLink, error) {
	const op = "adapter.repository.postgres.ShortLinkRepository.RetrieveByShortCode"
	const query = `SELECT * FROM short_links WHERE short_code = $1`

	var link shortLinkDB

	if err := r.db.GetContext(ctx, &link, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from short_links table: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *ShortLinkRepository) RetrieveAll(ctx context.Context) ([]entity.ShortLink, error) {
	const op = "adapter.repository.postgres.ShortLinkRepository.RetrieveAll"
	const query = `SELECT * FROM short_links ORDER BY created_at DESC, id DESC`

	var links []shortLinkDB

	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("%s: failed to get rows from short_links table: %w", op, err)
	}

	result := make([]entity.ShortLink, 0, len(links))
	for _, link := range links {
		result = append(result, *link.toEntity())
	}

	return result, nil
}

// IncrementClicks atomically adds one to the click counter, so concurrent
// visits to the same code never lose updates.
func (r *ShortLinkRepository) IncrementClicks(ctx context.Context, shortCode string) (*entity.ShortLink, error) {
	const op = "adapter.repository.postgres.ShortLinkRepository.IncrementClicks"
	const query = `UPDATE short_links SET clicks = clicks + 1 WHERE short_code = $1 RETURNING *`

	var link shortLinkDB

	if err := r.db.GetContext(ctx, &link, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update short_links table row: %w", op, err)
	}

	return link.toEntity(), nil
}

func (r *ShortLinkRepository) Remove(ctx context.Context, id int64) error {
	const op = "adapter.repository.postgres.ShortLinkRepository.Remove"
	const query = `DELETE FROM short_links WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from short_links table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrShortLinkNotFound)
	}

	return nil
}

// RemoveMany deletes the short links with the given ids and returns the number
// of rows actually deleted. Ids without a matching row are ignored.
func (r *ShortLinkRepository) RemoveMany(ctx context.Context, ids []int64) (int64, error) {
	const op = "adapter.repository.postgres.ShortLinkRepository.RemoveMany"

	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM short_links WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete from short_links table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	return rowsAffected, nil
}
