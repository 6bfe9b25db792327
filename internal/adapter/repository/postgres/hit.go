package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/treebio/treebio/internal/entity"
)

type shortLinkHitDB struct {
	ID          int64     `db:"id"`
	ShortLinkID int64     `db:"short_link_id"`
	IPAddress   string    `db:"ip_address"`
	HitAt       time.Time `db:"hit_at"`
}

func (h *shortLinkHitDB) toEntity() *entity.ShortLinkHit {
	return &entity.ShortLinkHit{
		ID:          h.ID,
		ShortLinkID: h.ShortLinkID,
		IPAddress:   h.IPAddress,
		HitAt:       h.HitAt,
	}
}

type HitRepository struct {
	db *sqlx.DB
}

func NewHitRepository(db *sqlx.DB) *HitRepository {
	return &HitRepository{db: db}
}

// Record appends one immutable hit event. The hit_at timestamp is assigned by
// the database at insertion time.
func (r *HitRepository) Record(ctx context.Context, shortLinkID int64, ipAddress string) error {
	const op = "adapter.repository.postgres.HitRepository.Record"
	const query = `INSERT INTO short_link_hits(short_link_id, ip_address) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, shortLinkID, ipAddress); err != nil {
		return fmt.Errorf("%s: failed to insert into short_link_hits table: %w", op, err)
	}

	return nil
}

func (r *HitRepository) RetrieveSince(ctx context.Context, shortLinkID int64, since time.Time) ([]entity.ShortLinkHit, error) {
	const op = "adapter.repository.postgres.HitRepository.RetrieveSince"
	const query = `SELECT * FROM short_link_hits WHERE short_link_id = $1 AND hit_at >= $2 ORDER BY hit_at`

	var hits []shortLinkHitDB

	if err := r.db.SelectContext(ctx, &hits, query, shortLinkID, since); err != nil {
		return nil, fmt.Errorf("%s: failed to get rows from short_link_hits table: %w", op, err)
	}

	result := make([]entity.ShortLinkHit, 0, len(hits))
	for _, hit := range hits {
		result = append(result, *hit.toEntity())
	}

	return result, nil
}
