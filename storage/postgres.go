package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"house_scout/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY,
		mls_id TEXT,
		address TEXT NOT NULL,
		city TEXT,
		region TEXT,
		postal_code TEXT,
		country TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		price DOUBLE PRECISION,
		currency TEXT,
		bedrooms INTEGER,
		bathrooms DOUBLE PRECISION,
		sqft INTEGER,
		lot_size_acres DOUBLE PRECISION,
		year_built INTEGER,
		property_type TEXT,
		num_rooms INTEGER,
		garage_spaces INTEGER,
		property_tax DOUBLE PRECISION,
		hoa_monthly DOUBLE PRECISION,
		estimated_repair_pct DOUBLE PRECISION,
		image_url TEXT,
		video_url TEXT,
		description TEXT,
		source_url TEXT,
		source_file TEXT,
		raw_html TEXT,
		imported_at TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_listings_mls ON listings(mls_id);
	CREATE INDEX IF NOT EXISTS idx_listings_address ON listings(address);
	CREATE INDEX IF NOT EXISTS idx_listings_imported ON listings(imported_at);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) AddListing(ctx context.Context, l *models.Listing) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO listings (
			id, mls_id, address, city, region, postal_code, country,
			latitude, longitude, price, currency, bedrooms, bathrooms, sqft,
			lot_size_acres, year_built, property_type, num_rooms, garage_spaces,
			property_tax, hoa_monthly, estimated_repair_pct, image_url, video_url,
			description, source_url, source_file, raw_html, imported_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
		)`,
		l.ID, l.MLSID, l.Address, l.City, l.Region, l.PostalCode, l.Country,
		l.Latitude, l.Longitude, l.Price, l.Currency, l.Bedrooms, l.Bathrooms, l.SqFt,
		l.LotSizeAcres, l.YearBuilt, l.PropertyType, l.NumRooms, l.GarageSpaces,
		l.PropertyTax, l.HOAMonthly, l.EstRepairPct, l.ImageURL, l.VideoURL,
		l.Description, l.SourceURL, l.SourceFile, l.RawHTML, l.ImportedAt)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListingExists(ctx context.Context, mlsID, address string) (bool, error) {
	if mlsID != "" {
		var one int
		err := s.pool.QueryRow(ctx,
			`SELECT 1 FROM listings WHERE mls_id = $1 LIMIT 1`, mlsID).Scan(&one)
		if err == nil {
			return true, nil
		}
		if err != pgx.ErrNoRows {
			return false, err
		}
	}

	if address == "" {
		return false, nil
	}
	var one int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM listings WHERE address = $1 LIMIT 1`, address).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) GetAllListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings ORDER BY imported_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := scanListing(rows.Scan, &l); err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *PostgresStore) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)

	var l models.Listing
	err := scanListing(row.Scan, &l)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}
