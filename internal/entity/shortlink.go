// Package entity defines the entities and errors used in the application.
// It includes the ShortLink and ShortLinkHit structs, which represent a
// shortened URL mapping and a single resolved visit to it, along with the
// relevant error definitions.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to create a short link with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrShortLinkNotFound is returned when a short link with the specified short code or id cannot be found.
	ErrShortLinkNotFound = errors.New("short link not found")
)

// ShortLink represents a shortened URL mapping.
type ShortLink struct {
	ID        int64     // ID is the unique identifier of the short link in the database.
	ShortCode string    // ShortCode is the generated code used as the public lookup key.
	URL       string    // URL is the destination that the short code resolves to.
	Clicks    int64     // Clicks is the number of times the short link has been resolved.
	CreatedAt time.Time // CreatedAt is the timestamp when the short link was created.
}

// ShortLinkHit represents one resolved visit to a short link. Hits are
// append-only; the aggregate Clicks counter on ShortLink and the hit rows are
// written by independently failing operations, so their counts may drift.
type ShortLinkHit struct {
	ID          int64     // ID is the unique identifier of the hit in the database.
	ShortLinkID int64     // ShortLinkID references the short link that was resolved.
	IPAddress   string    // IPAddress is the best-effort originating address of the visitor.
	HitAt       time.Time // HitAt is the timestamp when the hit occurred.
}

// DailyHits is one bucket of the zero-filled daily hit series used for charting.
type DailyHits struct {
	Date string // Date is the calendar day key in YYYY-MM-DD form.
	Hits int64  // Hits is the number of hits recorded on that day.
}
