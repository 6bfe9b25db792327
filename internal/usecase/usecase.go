package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/treebio/treebio/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shortCodeAlphabet restricts generated codes to upper-case base-36 so they
// stay human-typeable and tolerate case-insensitive entry.
const shortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrCodeSpaceExhausted is returned when no unused short code could be found
// within the attempt budget. The caller may retry the whole request.
var ErrCodeSpaceExhausted = errors.New("short code space exhausted")

type shortLinkRepository interface {
	Save(ctx context.Context, shortCode, url string) (*entity.ShortLink, error)
	ExistsByCode(ctx context.Context, shortCode string) (bool, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.ShortLink, error)
	RetrieveAll(ctx context.Context) ([]entity.ShortLink, error)
	IncrementClicks(ctx context.Context, shortCode string) (*entity.ShortLink, error)
	Remove(ctx context.Context, id int64) error
	RemoveMany(ctx context.Context, ids []int64) (int64, error)
}

type hitRepository interface {
	Record(ctx context.Context, shortLinkID int64, ipAddress string) error
	RetrieveSince(ctx context.Context, shortLinkID int64, since time.Time) ([]entity.ShortLinkHit, error)
}

type ShortLinkUseCase struct {
	shortCodeLength int
	linkRepo        shortLinkRepository
	hitRepo         hitRepository
	logger          *slog.Logger
}

func New(shortCodeLength int, linkRepo shortLinkRepository, hitRepo hitRepository, logger *slog.Logger) *ShortLinkUseCase {
	return &ShortLinkUseCase{
		shortCodeLength: shortCodeLength,
		linkRepo:        linkRepo,
		hitRepo:         hitRepo,
		logger:          logger,
	}
}

// Shorten creates a new short link for originalURL. The generate-check-insert
// cycle is retried when the store rejects the insert on its unique constraint,
// which can happen when two concurrent requests pass the existence check with
// the same candidate. The store's constraint is the final authority.
func (uc *ShortLinkUseCase) Shorten(ctx context.Context, originalURL string) (*entity.ShortLink, error) {
	const op = "usecase.ShortLinkUseCase.Shorten"
	const insertRetries = 3

	for i := 0; i < insertRetries; i++ {
		shortCode, err := uc.generateShortCode(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		link, err := uc.linkRepo.Save(ctx, shortCode, originalURL)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to save short link: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrCodeSpaceExhausted)
}

// generateShortCode draws fresh candidates until the store reports one unused.
// Six sequential collisions at ~2e9 combinations signals a bug or a saturated
// code space, so it fails fast instead of retrying unbounded.
func (uc *ShortLinkUseCase) generateShortCode(ctx context.Context) (string, error) {
	const op = "usecase.ShortLinkUseCase.generateShortCode"
	const maxAttempts = 6

	for i := 0; i < maxAttempts; i++ {
		shortCode, err := gonanoid.Generate(shortCodeAlphabet, uc.shortCodeLength)
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		exists, err := uc.linkRepo.ExistsByCode(ctx, shortCode)
		if err != nil {
			return "", fmt.Errorf("%s: failed to check short code existence: %w", op, err)
		}

		if !exists {
			return shortCode, nil
		}
	}

	return "", ErrCodeSpaceExhausted
}

// Resolve looks up shortCode, increments its click counter and records a hit
// event carrying ipAddress. The click increment is the canonical counter and
// must succeed; the hit write is best-effort and its failure is logged and
// discarded so it never affects the redirect.
func (uc *ShortLinkUseCase) Resolve(ctx context.Context, shortCode, ipAddress string) (*entity.ShortLink, error) {
	const op = "usecase.ShortLinkUseCase.Resolve"

	link, err := uc.linkRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	updated, err := uc.linkRepo.IncrementClicks(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to increment clicks: %w", op, err)
	}

	if err := uc.hitRepo.Record(ctx, updated.ID, ipAddress); err != nil {
		uc.logger.Warn(
			"failed to record short link hit",
			slog.Int64("short_link_id", updated.ID),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}

	return link, nil
}

// List returns all short links, newest first.
func (uc *ShortLinkUseCase) List(ctx context.Context) ([]entity.ShortLink, error) {
	const op = "usecase.ShortLinkUseCase.List"

	links, err := uc.linkRepo.RetrieveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list short links: %w", op, err)
	}

	return links, nil
}

// DailyHits returns a zero-filled series of hit counts for the days most
// recent calendar days up to and including today, oldest first. Days with no
// hits are present with a zero count; hits outside the window are dropped.
func (uc *ShortLinkUseCase) DailyHits(ctx context.Context, shortLinkID int64, days int) ([]entity.DailyHits, error) {
	const op = "usecase.ShortLinkUseCase.DailyHits"

	now := time.Now().UTC()
	since := now.Add(-time.Duration(days) * 24 * time.Hour)

	hits, err := uc.hitRepo.RetrieveSince(ctx, shortLinkID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to retrieve hits: %w", op, err)
	}

	buckets := make(map[string]int64, days)
	for i := 0; i < days; i++ {
		buckets[now.AddDate(0, 0, -i).Format(time.DateOnly)] = 0
	}

	for _, hit := range hits {
		key := hit.HitAt.UTC().Format(time.DateOnly)
		if _, ok := buckets[key]; ok {
			buckets[key]++
		}
	}

	series := make([]entity.DailyHits, 0, days)
	for date, count := range buckets {
		series = append(series, entity.DailyHits{Date: date, Hits: count})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})

	return series, nil
}

// Delete removes a single short link by id.
func (uc *ShortLinkUseCase) Delete(ctx context.Context, id int64) error {
	const op = "usecase.ShortLinkUseCase.Delete"

	if err := uc.linkRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("%s: failed to delete short link: %w", op, err)
	}

	return nil
}

// DeleteMany removes the short links with the given ids and reports how many
// rows were actually deleted. Unknown ids are skipped, not an error.
func (uc *ShortLinkUseCase) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	const op = "usecase.ShortLinkUseCase.DeleteMany"

	deleted, err := uc.linkRepo.RemoveMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to delete short links: %w", op, err)
	}

	return deleted, nil
}
