// Package storage persists parsed listings. Two backends implement Store:
// sqlite for the single-machine default and postgres when DATABASE_URL is
// set.
package storage

import (
	"context"

	"house_scout/models"
)

// Store is the persistence surface the daemon works against.
type Store interface {
	// AddListing inserts a listing. An empty ID is assigned a fresh UUID.
	AddListing(ctx context.Context, l *models.Listing) error

	// ListingExists reports whether a listing with the same MLS number or,
	// failing that, the exact same address string is already stored. The
	// address comparison is deliberately literal; formatting differences
	// count as different homes.
	ListingExists(ctx context.Context, mlsID, address string) (bool, error)

	// GetAllListings returns every stored listing, newest import first.
	GetAllListings(ctx context.Context) ([]models.Listing, error)

	// GetListing returns a listing by ID, or nil if absent.
	GetListing(ctx context.Context, id string) (*models.Listing, error)

	Close() error
}
